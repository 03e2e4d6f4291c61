package model

import "time"

// Waypoint is a single named point along a flight route. Altitude and the
// expected arrival time are optional: routes imported from planning tools
// often carry neither for enroute fixes.
type Waypoint struct {
	Name      string
	Latitude  float64 // degrees, +north
	Longitude float64 // degrees, +east

	AltitudeM   *float64   // metres above the ellipsoid; nil when unknown
	ExpectedETA *time.Time // recorded arrival time for this fix; nil when unknown
}

// TimingProfile is route-level timing: when the aircraft departs, when it
// arrives, and the planned total duration. A zero profile means the route
// carries no usable timing of its own.
type TimingProfile struct {
	Departure time.Time
	Arrival   time.Time
}

// Duration returns the planned flight duration, or zero when the profile
// is unusable.
func (tp TimingProfile) Duration() time.Duration {
	if tp.Departure.IsZero() || tp.Arrival.IsZero() || !tp.Arrival.After(tp.Departure) {
		return 0
	}
	return tp.Arrival.Sub(tp.Departure)
}

// IsUsable reports whether the profile describes a forward-moving window.
func (tp TimingProfile) IsUsable() bool {
	return tp.Duration() > 0
}

// Route is an ordered polyline of waypoints plus the route-level timing
// profile used to place each point in wall-clock time.
type Route struct {
	ID        string
	Name      string
	Waypoints []Waypoint
	Timing    TimingProfile
}

// WaypointByName returns the first waypoint with the given name, or nil.
func (r *Route) WaypointByName(name string) *Waypoint {
	for i := range r.Waypoints {
		if r.Waypoints[i].Name == name {
			return &r.Waypoints[i]
		}
	}
	return nil
}
