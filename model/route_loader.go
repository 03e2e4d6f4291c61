package model

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// internal JSON shapes – kept unexported so the wire format can evolve
// without touching the domain types.
type routeJSON struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Departure string         `json:"departure_time"` // RFC 3339
	Arrival   string         `json:"arrival_time"`   // RFC 3339
	Waypoints []waypointJSON `json:"waypoints"`
}

type waypointJSON struct {
	Name      string   `json:"name"`
	Latitude  float64  `json:"lat"`
	Longitude float64  `json:"lon"`
	AltitudeM *float64 `json:"alt_m"` // optional
	ETA       *string  `json:"eta"`   // optional, RFC 3339
}

// LoadRoute reads a JSON route from r and validates coordinate bounds.
// Timing is allowed to be absent here; the projector decides whether the
// route carries enough of it to be usable.
func LoadRoute(r io.Reader) (*Route, error) {
	var payload routeJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadRoute: decode failed: %w", err)
	}

	route := &Route{
		ID:        payload.ID,
		Name:      payload.Name,
		Waypoints: make([]Waypoint, 0, len(payload.Waypoints)),
	}

	if payload.Departure != "" {
		t, err := time.Parse(time.RFC3339, payload.Departure)
		if err != nil {
			return nil, fmt.Errorf("LoadRoute: bad departure_time %q: %w", payload.Departure, err)
		}
		route.Timing.Departure = t
	}
	if payload.Arrival != "" {
		t, err := time.Parse(time.RFC3339, payload.Arrival)
		if err != nil {
			return nil, fmt.Errorf("LoadRoute: bad arrival_time %q: %w", payload.Arrival, err)
		}
		route.Timing.Arrival = t
	}

	for i, js := range payload.Waypoints {
		if js.Latitude < -90 || js.Latitude > 90 || js.Longitude < -180 || js.Longitude > 180 {
			return nil, fmt.Errorf("LoadRoute: waypoint %d (%q) out of bounds: lat=%v lon=%v",
				i, js.Name, js.Latitude, js.Longitude)
		}
		wp := Waypoint{
			Name:      js.Name,
			Latitude:  js.Latitude,
			Longitude: js.Longitude,
			AltitudeM: js.AltitudeM,
		}
		if js.ETA != nil && *js.ETA != "" {
			t, err := time.Parse(time.RFC3339, *js.ETA)
			if err != nil {
				return nil, fmt.Errorf("LoadRoute: waypoint %q has bad eta %q: %w", js.Name, *js.ETA, err)
			}
			wp.ExpectedETA = &t
		}
		route.Waypoints = append(route.Waypoints, wp)
	}

	if len(route.Waypoints) < 2 {
		return nil, fmt.Errorf("LoadRoute: route %q needs at least two waypoints, got %d",
			route.ID, len(route.Waypoints))
	}

	return route, nil
}
