package repository

import (
	"vespawatch/internal/models"

	"gorm.io/gorm"
)

type HornetRepository struct {
	db *gorm.DB
}

func NewHornetRepository(db *gorm.DB) *HornetRepository {
	return &HornetRepository{db: db}
}

func (r *HornetRepository) Create(h *models.Hornet) error {
	return r.db.Create(h).Error
}

func (r *HornetRepository) GetByID(id uint) (*models.Hornet, error) {
	var h models.Hornet
	err := r.db.First(&h, id).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *HornetRepository) Delete(id uint) error {
	return r.db.Delete(&models.Hornet{}, id).Error
}

// ListInBox returns sightings inside box in insertion order, which is the
// order the map draws and scans them.
func (r *HornetRepository) ListInBox(box BoundingBox, limit int) ([]models.Hornet, error) {
	if !box.Valid() {
		return nil, ErrInvalidBox
	}
	var list []models.Hornet
	err := r.db.Scopes(box.scope).Order("id ASC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *HornetRepository) ListRecent(limit int) ([]models.Hornet, error) {
	var list []models.Hornet
	err := r.db.Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}
