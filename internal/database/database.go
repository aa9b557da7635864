package database

import (
	"errors"
	"log"
	"strings"

	"vespawatch/config"
	"vespawatch/internal/domain"
	"vespawatch/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Hornet{},
		&models.Apiary{},
		&models.Nest{},
	)
}

// SeedAdmin creates the configured ADMIN account once. Registration never
// grants ADMIN, so this is the only way in.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig) error {
	if cfg.Password == "" {
		log.Printf("[db] admin seed skipped: ADMIN_PASSWORD not set")
		return nil
	}
	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	log.Printf("[db] seeding admin %s", email)
	return db.Create(&models.User{
		Email:        email,
		Username:     cfg.Username,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}).Error
}
