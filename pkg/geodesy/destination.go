// Package geodesy implements great-circle math on a spherical Earth.
// Public functions take and return degrees; radians stay internal.
package geodesy

import "math"

// Destination returns the point reached by travelling distanceKm from origin
// along the initial bearing bearingDeg (clockwise from true north).
// The bearing is not canonicalized; any real value works through the trig functions.
func Destination(origin Point, bearingDeg, distanceKm float64) Point {
	δ := distanceKm / EarthRadiusKm
	θ := DegToRad(bearingDeg)
	φ1 := DegToRad(origin.Lat)
	λ1 := DegToRad(origin.Lng)

	sinφ2 := math.Sin(φ1)*math.Cos(δ) + math.Cos(φ1)*math.Sin(δ)*math.Cos(θ)
	if sinφ2 > 1 {
		sinφ2 = 1
	} else if sinφ2 < -1 {
		sinφ2 = -1
	}
	φ2 := math.Asin(sinφ2)
	y := math.Sin(θ) * math.Sin(δ) * math.Cos(φ1)
	x := math.Cos(δ) - math.Sin(φ1)*sinφ2
	λ2 := λ1 + math.Atan2(y, x)

	return Point{Lat: RadToDeg(φ2), Lng: NormalizeLng(RadToDeg(λ2))}
}

// InitialBearing returns the forward azimuth from a to b in [0, 360).
func InitialBearing(a, b Point) float64 {
	φ1, φ2 := DegToRad(a.Lat), DegToRad(b.Lat)
	Δλ := DegToRad(b.Lng - a.Lng)
	y := math.Sin(Δλ) * math.Cos(φ2)
	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)
	return Normalize360(RadToDeg(math.Atan2(y, x)))
}

// Normalize360 maps any finite angle into [0, 360).
func Normalize360(deg float64) float64 {
	n := math.Mod(deg, 360)
	if n < 0 {
		n += 360
	}
	// -1e-15 + 360 rounds to 360 in float64
	if n >= 360 {
		n = 0
	}
	return n
}

// NormalizeLng maps a longitude into [-180, 180).
func NormalizeLng(deg float64) float64 {
	return Normalize360(deg+180) - 180
}
