package core

import (
	"fmt"
	"math"
	"time"

	"github.com/signalsfoundry/mission-timeline/model"
)

// DefaultCruiseAltitudeM is assumed whenever a route segment lacks
// altitude data on either endpoint (35,000 ft).
const DefaultCruiseAltitudeM = 10668.0

// RouteProjection places an arbitrary point in wall-clock time along the
// route. Computed on demand, never persisted.
type RouteProjection struct {
	Timestamp time.Time
	Latitude  float64
	Longitude float64
	AltitudeM float64
}

// RouteProjector converts between route-relative position and wall-clock
// time. Waypoint times come from explicit ETAs when the route recorded
// them; otherwise they are synthesized from the timing profile by
// cumulative great-circle distance. Construction fails when neither
// source yields usable timing.
type RouteProjector struct {
	route *model.Route

	// times[i] is the wall-clock time at which the route passes
	// waypoint i. Monotonically non-decreasing after synthesis.
	times []time.Time

	// cumKm[i] is the great-circle distance from waypoint 0 to i.
	cumKm []float64
}

// NewRouteProjector builds a projector for the route.
func NewRouteProjector(route *model.Route) (*RouteProjector, error) {
	if route == nil {
		return nil, fmt.Errorf("%w: %w", ErrTimelineComputation, ErrNoRoute)
	}
	if len(route.Waypoints) < 2 {
		return nil, fmt.Errorf("%w: %w: route %q has %d waypoints",
			ErrTimelineComputation, ErrUnprojectable, route.ID, len(route.Waypoints))
	}

	p := &RouteProjector{
		route: route,
		cumKm: make([]float64, len(route.Waypoints)),
	}
	for i := 1; i < len(route.Waypoints); i++ {
		a, b := route.Waypoints[i-1], route.Waypoints[i]
		p.cumKm[i] = p.cumKm[i-1] + HaversineDistanceKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
	}

	times, err := synthesizeTimes(route, p.cumKm)
	if err != nil {
		return nil, err
	}
	p.times = times
	return p, nil
}

// Start returns the wall-clock time at the first waypoint.
func (p *RouteProjector) Start() time.Time { return p.times[0] }

// End returns the wall-clock time at the last waypoint.
func (p *RouteProjector) End() time.Time { return p.times[len(p.times)-1] }

// Project finds the nearest point on the route polyline to (lat, lon)
// and interpolates the bracketing waypoints' timestamps by fractional
// progress along that segment.
func (p *RouteProjector) Project(latDeg, lonDeg float64) (RouteProjection, error) {
	if latDeg < -90 || latDeg > 90 || lonDeg < -180 || lonDeg > 180 {
		return RouteProjection{}, fmt.Errorf("%w: %w: lat=%v lon=%v",
			ErrTimelineComputation, ErrUnprojectable, latDeg, lonDeg)
	}

	wps := p.route.Waypoints
	bestSeg := 0
	bestT := 0.0
	bestDistKm := math.Inf(1)

	for i := 0; i+1 < len(wps); i++ {
		t := segmentProgress(latDeg, lonDeg, wps[i], wps[i+1])
		candLat := wps[i].Latitude + (wps[i+1].Latitude-wps[i].Latitude)*t
		candLon := InterpolateLongitude(wps[i].Longitude, wps[i+1].Longitude, t)
		d := HaversineDistanceKm(latDeg, lonDeg, candLat, candLon)
		if d < bestDistKm {
			bestDistKm = d
			bestSeg = i
			bestT = t
		}
	}

	return p.interpolateAt(bestSeg, bestT), nil
}

// PositionAt maps an elapsed-time offset from the route start to a
// position. Offsets outside the route's span clamp to the endpoints.
func (p *RouteProjector) PositionAt(elapsed time.Duration) RouteProjection {
	target := p.times[0].Add(elapsed)

	if !target.After(p.times[0]) {
		return p.interpolateAt(0, 0)
	}
	last := len(p.times) - 1
	if !target.Before(p.times[last]) {
		return p.interpolateAt(last-1, 1)
	}

	for i := 0; i+1 < len(p.times); i++ {
		if target.Before(p.times[i+1]) || target.Equal(p.times[i+1]) {
			span := p.times[i+1].Sub(p.times[i])
			t := 0.0
			if span > 0 {
				t = float64(target.Sub(p.times[i])) / float64(span)
			}
			return p.interpolateAt(i, t)
		}
	}
	return p.interpolateAt(last-1, 1)
}

// interpolateAt produces the projection at fractional progress t along
// segment seg.
func (p *RouteProjector) interpolateAt(seg int, t float64) RouteProjection {
	a, b := p.route.Waypoints[seg], p.route.Waypoints[seg+1]

	ts := p.times[seg].Add(time.Duration(t * float64(p.times[seg+1].Sub(p.times[seg]))))

	alt := DefaultCruiseAltitudeM
	if a.AltitudeM != nil && b.AltitudeM != nil {
		alt = *a.AltitudeM + (*b.AltitudeM-*a.AltitudeM)*t
	}

	return RouteProjection{
		Timestamp: ts,
		Latitude:  a.Latitude + (b.Latitude-a.Latitude)*t,
		Longitude: InterpolateLongitude(a.Longitude, b.Longitude, t),
		AltitudeM: alt,
	}
}

// segmentProgress returns the clamped fractional progress of the point
// along the a->b segment, computed in a local equirectangular frame so
// the perpendicular foot is cheap. Longitude deltas are wrap-aware.
func segmentProgress(latDeg, lonDeg float64, a, b model.Waypoint) float64 {
	midLat := (a.Latitude + b.Latitude) / 2
	scale := math.Cos(midLat * degToRad)

	ax, ay := 0.0, 0.0
	bx := lonDelta(a.Longitude, b.Longitude) * scale
	by := b.Latitude - a.Latitude
	px := lonDelta(a.Longitude, lonDeg) * scale
	py := latDeg - a.Latitude

	dx, dy := bx-ax, by-ay
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return 0
	}
	t := (px*dx + py*dy) / l2
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// lonDelta returns the signed shortest-arc longitude difference b - a.
func lonDelta(a, b float64) float64 {
	d := math.Mod(b-a, 360)
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return d
}

// synthesizeTimes assigns a wall-clock time to every waypoint. Explicit
// ETAs win; gaps are filled by distributing the timing profile's span
// over cumulative distance. When the profile is unusable, at least two
// ETA anchors are required, and waypoints outside the anchored span are
// extrapolated at the anchors' average ground speed.
func synthesizeTimes(route *model.Route, cumKm []float64) ([]time.Time, error) {
	wps := route.Waypoints
	times := make([]time.Time, len(wps))
	have := make([]bool, len(wps))

	anchors := 0
	for i, wp := range wps {
		if wp.ExpectedETA != nil && !wp.ExpectedETA.IsZero() {
			times[i] = *wp.ExpectedETA
			have[i] = true
			anchors++
		}
	}

	if route.Timing.IsUsable() {
		// Treat departure/arrival as implicit anchors on the ends
		// unless the route pinned those waypoints itself.
		if !have[0] {
			times[0] = route.Timing.Departure
			have[0] = true
			anchors++
		}
		if !have[len(wps)-1] {
			times[len(wps)-1] = route.Timing.Arrival
			have[len(wps)-1] = true
			anchors++
		}
	}

	if anchors < 2 {
		return nil, fmt.Errorf("%w: %w: route %q", ErrTimelineComputation, ErrNoTimingData, route.ID)
	}

	// Fill between consecutive anchors by distance fraction.
	first, last := -1, -1
	for i := range wps {
		if have[i] {
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	prev := first
	for i := first + 1; i <= last; i++ {
		if !have[i] {
			continue
		}
		span := times[i].Sub(times[prev])
		distKm := cumKm[i] - cumKm[prev]
		for j := prev + 1; j < i; j++ {
			frac := 0.0
			if distKm > 0 {
				frac = (cumKm[j] - cumKm[prev]) / distKm
			}
			times[j] = times[prev].Add(time.Duration(frac * float64(span)))
		}
		prev = i
	}

	// Extrapolate outside the anchored span at the anchors' average
	// ground speed.
	anchorSpan := times[last].Sub(times[first])
	anchorDistKm := cumKm[last] - cumKm[first]
	perKm := time.Duration(0)
	if anchorDistKm > 0 {
		perKm = time.Duration(float64(anchorSpan) / anchorDistKm)
	}
	for i := first - 1; i >= 0; i-- {
		times[i] = times[first].Add(-time.Duration(float64(perKm) * (cumKm[first] - cumKm[i])))
	}
	for i := last + 1; i < len(wps); i++ {
		times[i] = times[last].Add(time.Duration(float64(perKm) * (cumKm[i] - cumKm[last])))
	}

	// Guard against inverted ETAs: clamp any backwards step so the
	// profile stays monotonic.
	for i := 1; i < len(times); i++ {
		if times[i].Before(times[i-1]) {
			times[i] = times[i-1]
		}
	}

	return times, nil
}
