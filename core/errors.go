package core

import "errors"

// Fatal build errors. A build that fails with any of these returns no
// partial timeline; other legs of the same mission are unaffected.
var (
	// ErrTimelineComputation is the umbrella for any fatal per-leg
	// build failure. All the sentinels below wrap it.
	ErrTimelineComputation = errors.New("timeline computation failed")

	// ErrNoTimingData means the route carries neither waypoint ETAs
	// nor a usable departure/arrival profile, so nothing can be
	// placed in wall-clock time.
	ErrNoTimingData = errors.New("route has no usable timing data")

	// ErrUnprojectable means a mission element references geometry
	// that cannot be projected onto the route at all.
	ErrUnprojectable = errors.New("position cannot be projected onto route")

	// ErrNoRoute means the leg has no route attached.
	ErrNoRoute = errors.New("mission leg has no route")

	// ErrEmptyWindow means the mission window is inverted or empty.
	ErrEmptyWindow = errors.New("mission window is empty")
)
