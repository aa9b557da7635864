package models

import (
	"time"

	"vespawatch/pkg/geodesy"

	"gorm.io/gorm"
)

type Apiary struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Latitude         float64        `gorm:"type:decimal(10,8);not null;index:idx_apiary_lat_lng" json:"latitude"`
	Longitude        float64        `gorm:"type:decimal(11,8);not null;index:idx_apiary_lat_lng" json:"longitude"`
	InfestationLevel int            `gorm:"not null;default:1" json:"infestation_level"` // 1 light, 2 moderate, 3 heavy
	Comments         string         `gorm:"type:text" json:"comments"`
	CreatedBy        uint           `gorm:"index" json:"created_by"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Apiary) TableName() string {
	return "apiaries"
}

func (a *Apiary) Position() geodesy.Point {
	return geodesy.Point{Lat: a.Latitude, Lng: a.Longitude}
}
