package core

import "math"

// WGS-84 ellipsoid constants. All geodetic<->ECEF conversions in the
// engine use these; the spherical mean radius is only for great-circle
// route distances.
const (
	wgs84SemiMajorM = 6378137.0
	wgs84Flattening = 1.0 / 298.257223563
	wgs84Ecc2       = wgs84Flattening * (2 - wgs84Flattening)

	// EarthRadiusKm is the mean Earth radius used for great-circle
	// route distances (kilometres).
	EarthRadiusKm = 6371.0

	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// Vec3 is an ECEF vector in metres.
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// DistanceTo returns the straight-line distance between two points.
func (v Vec3) DistanceTo(other Vec3) float64 {
	return v.Sub(other).Norm()
}

// ECEFFromGeodetic converts geodetic coordinates (degrees, metres above
// the WGS-84 ellipsoid) to an ECEF position in metres. Callers are
// responsible for rejecting out-of-range lat/lon at the boundary.
func ECEFFromGeodetic(latDeg, lonDeg, altM float64) Vec3 {
	lat := latDeg * degToRad
	lon := lonDeg * degToRad

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)

	// Radius of curvature in the prime vertical.
	n := wgs84SemiMajorM / math.Sqrt(1-wgs84Ecc2*sinLat*sinLat)

	return Vec3{
		X: (n + altM) * cosLat * math.Cos(lon),
		Y: (n + altM) * cosLat * math.Sin(lon),
		Z: (n*(1-wgs84Ecc2) + altM) * sinLat,
	}
}

// GeodeticFromECEF converts an ECEF position (metres) back to geodetic
// coordinates using the iterative Bowring method, which converges in a
// handful of iterations for anything between the surface and GEO.
func GeodeticFromECEF(p Vec3) (latDeg, lonDeg, altM float64) {
	lon := math.Atan2(p.Y, p.X)
	rho := math.Sqrt(p.X*p.X + p.Y*p.Y)

	lat := math.Atan2(p.Z, rho*(1-wgs84Ecc2))
	for i := 0; i < 5; i++ {
		sinLat := math.Sin(lat)
		n := wgs84SemiMajorM / math.Sqrt(1-wgs84Ecc2*sinLat*sinLat)
		lat = math.Atan2(p.Z+wgs84Ecc2*n*sinLat, rho)
	}

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	n := wgs84SemiMajorM / math.Sqrt(1-wgs84Ecc2*sinLat*sinLat)

	var alt float64
	if math.Abs(cosLat) > 1e-10 {
		alt = rho/cosLat - n
	} else {
		alt = math.Abs(p.Z)/math.Abs(sinLat) - n*(1-wgs84Ecc2)
	}

	return lat * radToDeg, lon * radToDeg, alt
}

// LookAngles holds azimuth, elevation and range from an observer to a
// satellite. Azimuth: 0° = true north, clockwise, normalized to
// [0, 360). Elevation: 0° = geometric horizon, 90° = zenith, in
// [-90, 90].
type LookAngles struct {
	AzimuthDeg   float64
	ElevationDeg float64
	RangeM       float64
}

// LookAnglesTo computes azimuth/elevation/range from a geodetic observer
// to a satellite ECEF position (metres), via the SEZ topocentric
// rotation. Pure and deterministic: everything is recomputed from the
// inputs on every call.
func LookAnglesTo(obsLatDeg, obsLonDeg, obsAltM float64, sat Vec3) LookAngles {
	obs := ECEFFromGeodetic(obsLatDeg, obsLonDeg, obsAltM)
	r := sat.Sub(obs)

	lat := obsLatDeg * degToRad
	lon := obsLonDeg * degToRad
	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	sinLon := math.Sin(lon)
	cosLon := math.Cos(lon)

	// Rotate the ECEF range vector into South-East-Zenith axes.
	south := sinLat*cosLon*r.X + sinLat*sinLon*r.Y - cosLat*r.Z
	east := -sinLon*r.X + cosLon*r.Y
	zenith := cosLat*cosLon*r.X + cosLat*sinLon*r.Y + sinLat*r.Z

	rangeM := math.Sqrt(south*south + east*east + zenith*zenith)
	if rangeM == 0 {
		return LookAngles{AzimuthDeg: 0, ElevationDeg: 90, RangeM: 0}
	}

	el := math.Asin(clampUnit(zenith/rangeM)) * radToDeg

	// Azimuth measured clockwise from north: north is -south in SEZ.
	az := NormalizeAzimuth(math.Atan2(east, -south) * radToDeg)

	return LookAngles{AzimuthDeg: az, ElevationDeg: el, RangeM: rangeM}
}

// NormalizeAzimuth maps any angle in degrees onto [0, 360).
func NormalizeAzimuth(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// IsInAzimuthRange reports whether azimuth lies inside [start, end],
// where the range may wrap through 0/360 (e.g. 320..40 covers north).
// A degenerate range where start == end matches only that exact bearing.
func IsInAzimuthRange(azimuthDeg, startDeg, endDeg float64) bool {
	az := NormalizeAzimuth(azimuthDeg)
	start := NormalizeAzimuth(startDeg)
	end := NormalizeAzimuth(endDeg)

	if start <= end {
		return az >= start && az <= end
	}
	// Wrapped range.
	return az >= start || az <= end
}

// HaversineDistanceKm returns the great-circle distance between two
// geodetic points over the mean-radius sphere.
func HaversineDistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * degToRad
	phi2 := lat2 * degToRad
	dPhi := (lat2 - lat1) * degToRad
	dLambda := (lon2 - lon1) * degToRad

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// InterpolateLongitude interpolates between two longitudes along the
// shorter arc, so a segment crossing the antimeridian does not produce a
// 360° jump. t is the fractional progress in [0, 1]. The result is
// normalized to [-180, 180).
func InterpolateLongitude(lon1, lon2, t float64) float64 {
	delta := math.Mod(lon2-lon1, 360)
	if delta > 180 {
		delta -= 360
	} else if delta < -180 {
		delta += 360
	}
	lon := math.Mod(lon1+delta*t+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
