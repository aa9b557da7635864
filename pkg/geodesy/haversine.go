package geodesy

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius of the spherical model.
const EarthRadiusKm = 6371.0

var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate rejects non-finite values and latitudes/longitudes outside the WGS84 ranges.
func (p Point) Validate() error {
	if !isFinite(p.Lat) || !isFinite(p.Lng) {
		return fmt.Errorf("%w: non-finite lat/lng (%v, %v)", ErrInvalidCoordinate, p.Lat, p.Lng)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidCoordinate, p.Lat)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidCoordinate, p.Lng)
	}
	return nil
}

func DegToRad(d float64) float64 { return d * math.Pi / 180 }
func RadToDeg(r float64) float64 { return r * 180 / math.Pi }

// HaversineKm returns the great-circle distance in km between a and b.
func HaversineKm(a, b Point) float64 {
	φ1, φ2 := DegToRad(a.Lat), DegToRad(b.Lat)
	Δφ := DegToRad(b.Lat - a.Lat)
	Δλ := DegToRad(b.Lng - a.Lng)
	h := math.Sin(Δφ/2)*math.Sin(Δφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	if h > 1 {
		h = 1
	}
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
