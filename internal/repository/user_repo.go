package repository

import (
	"strings"

	"vespawatch/internal/models"

	"gorm.io/gorm"
)

// UserRepository stores accounts. Emails are kept lower-cased, so lookups
// fold case the same way.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	u.Email = normalizeEmail(u.Email)
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	return r.findBy("id", id)
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	return r.findBy("email", normalizeEmail(email))
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	return r.findBy("username", username)
}

// findBy returns the single user whose column equals value, or
// gorm.ErrRecordNotFound.
func (r *UserRepository) findBy(column string, value any) (*models.User, error) {
	var u models.User
	if err := r.db.Where(column+" = ?", value).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
