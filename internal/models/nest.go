package models

import (
	"time"

	"vespawatch/pkg/geodesy"

	"gorm.io/gorm"
)

type Nest struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Latitude    float64        `gorm:"type:decimal(10,8);not null;index:idx_nest_lat_lng" json:"latitude"`
	Longitude   float64        `gorm:"type:decimal(11,8);not null;index:idx_nest_lat_lng" json:"longitude"`
	PublicPlace bool           `gorm:"default:false" json:"public_place"`
	Destroyed   bool           `gorm:"default:false;index" json:"destroyed"`
	DestroyedAt *time.Time     `json:"destroyed_at"`
	DestroyedBy *uint          `json:"destroyed_by,omitempty"`
	Comments    string         `gorm:"type:text" json:"comments"`
	PhotoURL    string         `gorm:"size:512" json:"photo_url,omitempty"`
	PhotoID     string         `gorm:"column:photo_public_id;size:255" json:"-"`
	CreatedBy   uint           `gorm:"index" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Nest) TableName() string {
	return "nests"
}

func (n *Nest) Position() geodesy.Point {
	return geodesy.Point{Lat: n.Latitude, Lng: n.Longitude}
}
