package repository

import (
	"time"

	"vespawatch/internal/models"

	"gorm.io/gorm"
)

type NestRepository struct {
	db *gorm.DB
}

func NewNestRepository(db *gorm.DB) *NestRepository {
	return &NestRepository{db: db}
}

func (r *NestRepository) Create(n *models.Nest) error {
	return r.db.Create(n).Error
}

func (r *NestRepository) GetByID(id uint) (*models.Nest, error) {
	var n models.Nest
	err := r.db.First(&n, id).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NestRepository) Delete(id uint) error {
	return r.db.Delete(&models.Nest{}, id).Error
}

func (r *NestRepository) ListInBox(box BoundingBox, limit int) ([]models.Nest, error) {
	if !box.Valid() {
		return nil, ErrInvalidBox
	}
	var list []models.Nest
	err := r.db.Scopes(box.scope).Order("id ASC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *NestRepository) ListRecent(limit int) ([]models.Nest, error) {
	var list []models.Nest
	err := r.db.Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

// MarkDestroyed flags the nest destroyed by userID. Already destroyed nests
// keep their original timestamp.
func (r *NestRepository) MarkDestroyed(id, userID uint, at time.Time) error {
	return r.db.Model(&models.Nest{}).
		Where("id = ? AND destroyed = ?", id, false).
		Updates(map[string]interface{}{"destroyed": true, "destroyed_at": at, "destroyed_by": userID}).Error
}

func (r *NestRepository) UpdatePhoto(id uint, url, publicID string) error {
	return r.db.Model(&models.Nest{}).Where("id = ?", id).
		Updates(map[string]interface{}{"photo_url": url, "photo_public_id": publicID}).Error
}
