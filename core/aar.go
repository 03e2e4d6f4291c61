package core

import (
	"context"
	"time"

	"github.com/signalsfoundry/mission-timeline/internal/logging"
	"github.com/signalsfoundry/mission-timeline/model"
)

// ResolvedAARWindow is an aerial-refueling window pinned to wall-clock
// time via its named waypoints.
type ResolvedAARWindow struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window ([Start, End)).
func (w ResolvedAARWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// ResolveAARWindows maps each spec's start/end waypoint names to
// timestamps. A waypoint's own recorded ETA takes precedence over
// projection. Windows that cannot be resolved, or that come out
// inverted, are dropped with a debug log rather than failing the build.
func ResolveAARWindows(ctx context.Context, log logging.Logger, specs []model.AARWindowSpec,
	route *model.Route, proj *RouteProjector) []ResolvedAARWindow {

	if log == nil {
		log = logging.Noop()
	}

	var out []ResolvedAARWindow
	for _, spec := range specs {
		start, ok := resolveWaypointTime(route, proj, spec.StartWaypoint)
		if !ok {
			log.Debug(ctx, "dropping AAR window: start waypoint unresolvable",
				logging.String("window", spec.Name),
				logging.String("waypoint", spec.StartWaypoint))
			continue
		}
		end, ok := resolveWaypointTime(route, proj, spec.EndWaypoint)
		if !ok {
			log.Debug(ctx, "dropping AAR window: end waypoint unresolvable",
				logging.String("window", spec.Name),
				logging.String("waypoint", spec.EndWaypoint))
			continue
		}
		if !end.After(start) {
			log.Debug(ctx, "dropping AAR window: inverted or empty",
				logging.String("window", spec.Name))
			continue
		}
		out = append(out, ResolvedAARWindow{Name: spec.Name, Start: start, End: end})
	}
	return out
}

func resolveWaypointTime(route *model.Route, proj *RouteProjector, name string) (time.Time, bool) {
	wp := route.WaypointByName(name)
	if wp == nil {
		return time.Time{}, false
	}
	if wp.ExpectedETA != nil && !wp.ExpectedETA.IsZero() {
		return *wp.ExpectedETA, true
	}
	projection, err := proj.Project(wp.Latitude, wp.Longitude)
	if err != nil {
		return time.Time{}, false
	}
	return projection.Timestamp, true
}

// aarWindowAt returns the first resolved window containing t, or nil.
func aarWindowAt(windows []ResolvedAARWindow, t time.Time) *ResolvedAARWindow {
	for i := range windows {
		if windows[i].Contains(t) {
			return &windows[i]
		}
	}
	return nil
}
