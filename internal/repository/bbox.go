package repository

import (
	"errors"

	"vespawatch/pkg/geodesy"

	"gorm.io/gorm"
)

var ErrInvalidBox = errors.New("invalid bounding box")

// BoundingBox is a lat/lng rectangle used to prefilter map listings.
// A box with MinLng > MaxLng crosses the antimeridian.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

func (b BoundingBox) Valid() bool {
	return b.MinLat <= b.MaxLat &&
		b.MinLat >= -90 && b.MaxLat <= 90 &&
		b.MinLng >= -180 && b.MinLng <= 180 &&
		b.MaxLng >= -180 && b.MaxLng <= 180
}

// Contains reports whether p lies in b, including boxes that wrap ±180.
func (b BoundingBox) Contains(p geodesy.Point) bool {
	if p.Lat < b.MinLat || p.Lat > b.MaxLat {
		return false
	}
	if b.MinLng > b.MaxLng {
		return p.Lng >= b.MinLng || p.Lng <= b.MaxLng
	}
	return p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// Pad grows the box by deltaDeg on every side, clamped to valid ranges.
func (b BoundingBox) Pad(deltaDeg float64) BoundingBox {
	out := BoundingBox{
		MinLat: max(-90, b.MinLat-deltaDeg),
		MaxLat: min(90, b.MaxLat+deltaDeg),
		MinLng: max(-180, b.MinLng-deltaDeg),
		MaxLng: min(180, b.MaxLng+deltaDeg),
	}
	if b.MinLng > b.MaxLng {
		out.MinLng, out.MaxLng = b.MinLng-deltaDeg, b.MaxLng+deltaDeg
		if out.MinLng < -180 {
			out.MinLng = -180
		}
		if out.MaxLng > 180 {
			out.MaxLng = 180
		}
	}
	return out
}

// scope restricts a query on latitude/longitude columns to b.
func (b BoundingBox) scope(db *gorm.DB) *gorm.DB {
	db = db.Where("latitude BETWEEN ? AND ?", b.MinLat, b.MaxLat)
	if b.MinLng > b.MaxLng {
		return db.Where("(longitude >= ? OR longitude <= ?)", b.MinLng, b.MaxLng)
	}
	return db.Where("longitude BETWEEN ? AND ?", b.MinLng, b.MaxLng)
}
