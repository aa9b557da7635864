package models

import (
	"math"
	"time"

	"vespawatch/pkg/geodesy"
	"vespawatch/pkg/returnzone"

	"gorm.io/gorm"
)

// Hornet is one directional sighting: where the hornet was seen, the bearing
// it flew off on, and optionally how long it stayed away before coming back.
type Hornet struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Latitude        float64        `gorm:"type:decimal(10,8);not null;index:idx_hornet_lat_lng" json:"latitude"`
	Longitude       float64        `gorm:"type:decimal(11,8);not null;index:idx_hornet_lat_lng" json:"longitude"`
	Direction       float64        `gorm:"type:decimal(6,3);not null" json:"direction"`
	DurationSeconds *int           `json:"duration"`
	MarkColor1      string         `gorm:"size:20" json:"mark_color_1,omitempty"`
	MarkColor2      string         `gorm:"size:20" json:"mark_color_2,omitempty"`
	CreatedBy       uint           `gorm:"index" json:"created_by"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Hornet) TableName() string {
	return "hornets"
}

func (h *Hornet) Position() geodesy.Point {
	return geodesy.Point{Lat: h.Latitude, Lng: h.Longitude}
}

// StoredDirection rounds deg to the column's 3 decimals and wraps it back
// into [0, 360), so 359.9996 is kept as 0 rather than 360.000.
func StoredDirection(deg float64) float64 {
	return geodesy.Normalize360(math.Round(deg*1000) / 1000)
}

// Observation returns the sighting as return-zone input.
func (h *Hornet) Observation() returnzone.Observation {
	return returnzone.Observation{
		Position:               h.Position(),
		BearingDeg:             geodesy.Normalize360(h.Direction),
		AbsenceDurationSeconds: h.DurationSeconds,
	}
}

// Colors returns the non-empty mark colors.
func (h *Hornet) Colors() []string {
	var out []string
	for _, c := range []string{h.MarkColor1, h.MarkColor2} {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
