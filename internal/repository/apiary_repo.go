package repository

import (
	"vespawatch/internal/models"

	"gorm.io/gorm"
)

type ApiaryRepository struct {
	db *gorm.DB
}

func NewApiaryRepository(db *gorm.DB) *ApiaryRepository {
	return &ApiaryRepository{db: db}
}

func (r *ApiaryRepository) Create(a *models.Apiary) error {
	return r.db.Create(a).Error
}

func (r *ApiaryRepository) GetByID(id uint) (*models.Apiary, error) {
	var a models.Apiary
	err := r.db.First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ApiaryRepository) Delete(id uint) error {
	return r.db.Delete(&models.Apiary{}, id).Error
}

func (r *ApiaryRepository) ListInBox(box BoundingBox, limit int) ([]models.Apiary, error) {
	if !box.Valid() {
		return nil, ErrInvalidBox
	}
	var list []models.Apiary
	err := r.db.Scopes(box.scope).Order("id ASC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *ApiaryRepository) ListRecent(limit int) ([]models.Apiary, error) {
	var list []models.Apiary
	err := r.db.Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}
