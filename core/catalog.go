package core

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrSatelliteExists   = errors.New("satellite already exists")
	ErrSatelliteBadInput = errors.New("invalid satellite")
)

// GeoPoint is a geodetic vertex of a coverage polygon.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// AzimuthWindow is a serviceable azimuth arc for an X-band dish,
// possibly wrapping through 0/360.
type AzimuthWindow struct {
	StartDeg float64
	EndDeg   float64
}

// Satellite is one catalog entry. A satellite may serve Ka (coverage
// polygon), X (serviceable azimuth windows), or both.
type Satellite struct {
	ID   string
	Name string

	Position PositionModel

	// KaCoverage is the Ka footprint polygon. The last vertex does
	// not repeat the first; the closing edge is implied. Empty means
	// the satellite carries no Ka coverage data.
	KaCoverage []GeoPoint

	// XAzimuthWindows are the serviceable dish azimuths for X-band.
	// Empty means no azimuth constraint data.
	XAzimuthWindows []AzimuthWindow
}

// SatelliteCatalog is the static reference data for a process: populated
// once at startup, then only read. Reads are safe for concurrent use by
// independent per-leg builds.
type SatelliteCatalog struct {
	mu   sync.RWMutex
	sats map[string]*Satellite
}

// NewSatelliteCatalog constructs an empty catalog.
func NewSatelliteCatalog() *SatelliteCatalog {
	return &SatelliteCatalog{sats: make(map[string]*Satellite)}
}

// AddSatellite registers a satellite. It returns an error if the ID is
// empty or already present.
func (c *SatelliteCatalog) AddSatellite(s *Satellite) error {
	if s == nil || s.ID == "" {
		return fmt.Errorf("%w: nil or empty id", ErrSatelliteBadInput)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.sats[s.ID]; exists {
		return fmt.Errorf("%w: %q", ErrSatelliteExists, s.ID)
	}
	c.sats[s.ID] = s
	return nil
}

// Satellite returns the entry for id, or nil when unknown.
func (c *SatelliteCatalog) Satellite(id string) *Satellite {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sats[id]
}

// Len returns the number of registered satellites.
func (c *SatelliteCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sats)
}

// KaCovers reports whether satellite id's Ka footprint contains the
// point. known is false when the satellite is unknown or carries no
// coverage polygon; callers treat that as "no coverage data" and degrade
// to available rather than failing the mission.
func (c *SatelliteCatalog) KaCovers(id string, latDeg, lonDeg float64) (covered, known bool) {
	sat := c.Satellite(id)
	if sat == nil || len(sat.KaCoverage) < 3 {
		return false, false
	}
	return pointInPolygon(latDeg, lonDeg, sat.KaCoverage), true
}

// XAzimuthServiceable reports whether the given dish azimuth is inside
// any of satellite id's serviceable windows. known is false when the
// satellite is unknown or has no window data (same degrade-to-available
// policy as KaCovers).
func (c *SatelliteCatalog) XAzimuthServiceable(id string, azimuthDeg float64) (ok, known bool) {
	sat := c.Satellite(id)
	if sat == nil || len(sat.XAzimuthWindows) == 0 {
		return false, false
	}
	for _, w := range sat.XAzimuthWindows {
		if IsInAzimuthRange(azimuthDeg, w.StartDeg, w.EndDeg) {
			return true, true
		}
	}
	return false, true
}

// PositionAt resolves satellite id's ECEF position at t. ok is false
// when the satellite is unknown or has no position model.
func (c *SatelliteCatalog) PositionAt(id string, t time.Time) (Vec3, bool) {
	sat := c.Satellite(id)
	if sat == nil || sat.Position == nil {
		return Vec3{}, false
	}
	return sat.Position.ECEFAt(t), true
}

// pointInPolygon is a standard even-odd ray cast in lat/lon space. The
// polygon's closing edge from the last vertex back to the first is
// included implicitly. Footprint polygons are assumed not to span the
// antimeridian; catalogs split such footprints into two polygons.
func pointInPolygon(latDeg, lonDeg float64, poly []GeoPoint) bool {
	inside := false
	n := len(poly)
	for i := 0; i < n; i++ {
		p0, p1 := poly[i], poly[(i+1)%n]
		if (p0.Latitude <= latDeg && latDeg < p1.Latitude) ||
			(p1.Latitude <= latDeg && latDeg < p0.Latitude) {
			x := p0.Longitude + (latDeg-p0.Latitude)*
				(p1.Longitude-p0.Longitude)/(p1.Latitude-p0.Latitude)
			if x > lonDeg {
				inside = !inside
			}
		}
	}
	return inside
}
