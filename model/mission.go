package model

import "time"

// XTransition is a scheduled X-band satellite handoff. The trigger is a
// route position; the engine projects it onto the route's timing profile
// to obtain the transition instant.
type XTransition struct {
	TargetSatelliteID string
	Latitude          float64
	Longitude         float64
}

// OutageWindow is an operator-declared span during which a transport is
// impaired. Declared spans are authoritative: they override whatever the
// geometry and coverage computation would otherwise conclude.
type OutageWindow struct {
	Start  time.Time
	End    time.Time
	Reason string
}

// KuOverride is a scheduled Ku-band usage window. Most overrides degrade
// Ku for their span; an advisory-only override (Blocking == false) leaves
// Ku untouched and exists so that X transitions scheduled inside it can be
// flagged as X-Ku conflicts.
type KuOverride struct {
	Start    time.Time
	End      time.Time
	Reason   string
	Blocking bool
}

// AARWindowSpec names an aerial-refueling window by its start and end
// waypoints. Resolution to wall-clock times happens against the route.
type AARWindowSpec struct {
	Name          string
	StartWaypoint string
	EndWaypoint   string
}

// TransportConfig is the per-leg communication plan across the three
// transport bands.
type TransportConfig struct {
	InitialXSatelliteID   string
	InitialKaSatelliteIDs []string

	XTransitions []XTransition
	KaOutages    []OutageWindow
	KuOverrides  []KuOverride
	AARWindows   []AARWindowSpec
}

// MissionWindow bounds a single leg's timeline. All intervals and
// segments are clamped to [Start, End).
type MissionWindow struct {
	Start time.Time
	End   time.Time
}

// Duration returns the window length, or zero for an inverted window.
func (w MissionWindow) Duration() time.Duration {
	if !w.End.After(w.Start) {
		return 0
	}
	return w.End.Sub(w.Start)
}

// MissionLeg is one flight leg: a route, the mission window, and the
// transport plan to evaluate against it.
type MissionLeg struct {
	ID         string
	Name       string
	Route      *Route
	Window     MissionWindow
	Transports TransportConfig
}

// EffectiveWindow returns the leg's window, falling back to the route
// timing profile when the leg does not pin one explicitly.
func (leg *MissionLeg) EffectiveWindow() MissionWindow {
	if leg.Window.Duration() > 0 {
		return leg.Window
	}
	if leg.Route != nil && leg.Route.Timing.IsUsable() {
		return MissionWindow{Start: leg.Route.Timing.Departure, End: leg.Route.Timing.Arrival}
	}
	return leg.Window
}
