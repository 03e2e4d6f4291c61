package core

import (
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// GeostationaryAltitudeM is the nominal GEO altitude above the ellipsoid.
const GeostationaryAltitudeM = 35786000.0

// PositionModel resolves a satellite's ECEF position at an instant.
type PositionModel interface {
	ECEFAt(t time.Time) Vec3
}

// GeostationaryModel pins a satellite above a fixed longitude on the
// equator. Good enough for comsats with tight station-keeping, which is
// what the mission plans reference almost exclusively.
type GeostationaryModel struct {
	LongitudeDeg float64
}

// ECEFAt returns the fixed GEO position; t is ignored.
func (m *GeostationaryModel) ECEFAt(t time.Time) Vec3 {
	return ECEFFromGeodetic(0, m.LongitudeDeg, GeostationaryAltitudeM)
}

// TLEModel propagates a two-line element set with SGP4 and rotates the
// ECI result into ECEF at the requested instant.
type TLEModel struct {
	sat satellite.Satellite
}

// NewTLEModel constructs a TLE-backed position model from TLE lines.
func NewTLEModel(line1, line2 string) *TLEModel {
	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	return &TLEModel{sat: sat}
}

// ECEFAt propagates the satellite to t. go-satellite works in
// kilometres; the engine stores metres. SGP4 epochs and GMST are
// defined in UTC, so t is normalized before its fields are read.
func (m *TLEModel) ECEFAt(t time.Time) Vec3 {
	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	posECI, _ := satellite.Propagate(m.sat, year, int(month), day, hour, min, sec)
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	posECEF := satellite.ECIToECEF(posECI, gmst)

	const kmToM = 1000.0
	return Vec3{X: posECEF.X * kmToM, Y: posECEF.Y * kmToM, Z: posECEF.Z * kmToM}
}

// NewPositionModel chooses a model for a catalog entry: non-empty TLE
// lines take SGP4, otherwise the satellite is treated as geostationary
// at its declared longitude.
func NewPositionModel(geoLongitudeDeg float64, tle1, tle2 string) PositionModel {
	if tle1 != "" && tle2 != "" {
		return NewTLEModel(tle1, tle2)
	}
	return &GeostationaryModel{LongitudeDeg: geoLongitudeDeg}
}
