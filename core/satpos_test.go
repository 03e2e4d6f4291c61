package core

import (
	"math"
	"testing"
	"time"
)

func TestGeostationaryModel_Position(t *testing.T) {
	m := &GeostationaryModel{LongitudeDeg: -30}
	p := m.ECEFAt(time.Now())

	// ~GEO orbital radius, independent of the query time.
	radiusKm := p.Norm() / 1000.0
	if radiusKm < 42000 || radiusKm > 42300 {
		t.Errorf("GEO radius = %v km, want ~42164", radiusKm)
	}

	lat, lon, _ := GeodeticFromECEF(p)
	if math.Abs(lat) > 1e-6 {
		t.Errorf("GEO latitude = %v, want 0", lat)
	}
	if math.Abs(lon-(-30)) > 1e-6 {
		t.Errorf("GEO longitude = %v, want -30", lon)
	}
}

func TestGeostationaryModel_TimeIndependent(t *testing.T) {
	m := &GeostationaryModel{LongitudeDeg: 100}
	a := m.ECEFAt(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	b := m.ECEFAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	if a != b {
		t.Errorf("geostationary position moved: %+v vs %+v", a, b)
	}
}

func TestTLEModel_LEOAltitude(t *testing.T) {
	// ISS-class TLE: propagated position should sit in low Earth orbit.
	tle1 := "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990"
	tle2 := "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760"
	m := NewTLEModel(tle1, tle2)

	p := m.ECEFAt(time.Date(2021, 10, 2, 14, 0, 0, 0, time.UTC))
	radiusKm := p.Norm() / 1000.0
	if radiusKm < 6500 || radiusKm > 7100 {
		t.Errorf("LEO radius = %v km, want 6500..7100", radiusKm)
	}
}

func TestTLEModel_ZoneIndependent(t *testing.T) {
	tle1 := "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990"
	tle2 := "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760"
	m := NewTLEModel(tle1, tle2)

	// The same instant expressed in two zones must propagate to the
	// same ECEF point; a zone-offset skew shows up as an Earth-rotation
	// error of hundreds of kilometres.
	utc := time.Date(2021, 10, 2, 14, 0, 0, 0, time.UTC)
	local := utc.In(time.FixedZone("CEST", 2*3600))

	a := m.ECEFAt(utc)
	b := m.ECEFAt(local)
	if a != b {
		t.Errorf("ECEF differs by zone representation: %+v vs %+v", a, b)
	}
}

func TestNewPositionModel_Dispatch(t *testing.T) {
	tle1 := "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990"
	tle2 := "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760"

	if _, ok := NewPositionModel(0, tle1, tle2).(*TLEModel); !ok {
		t.Errorf("TLE lines should select the SGP4 model")
	}
	if _, ok := NewPositionModel(45, "", "").(*GeostationaryModel); !ok {
		t.Errorf("missing TLE should select the geostationary model")
	}
}
