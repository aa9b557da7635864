package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vespawatch/config"
	"vespawatch/internal/auth"
	"vespawatch/internal/domain"
	"vespawatch/internal/models"
)

type memUsers struct {
	byID map[uint]*models.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[uint]*models.User{}} }

func (m *memUsers) Create(u *models.User) error {
	u.ID = uint(len(m.byID) + 1)
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) GetByID(id uint) (*models.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUsers) find(match func(*models.User) bool) (*models.User, error) {
	for _, u := range m.byID {
		if match(u) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUsers) GetByEmail(email string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Email == email })
}

func (m *memUsers) GetByUsername(username string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Username == username })
}

func newAuth() (*AuthService, *config.JWTConfig) {
	cfg := &config.JWTConfig{
		AccessSecret:  "a",
		RefreshSecret: "r",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "vespawatch",
	}
	return NewAuthService(cfg, newMemUsers()), cfg
}

func TestRegisterAndLogin(t *testing.T) {
	svc, cfg := newAuth()
	u, tokens, err := svc.Register(" Keeper@Example.org ", "keeper", "s3cret-pass", domain.RoleBeekeeper)
	require.NoError(t, err)
	assert.Equal(t, "keeper@example.org", u.Email)
	assert.Equal(t, domain.RoleBeekeeper, u.Role)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)

	claims, err := auth.ParseAccessToken(cfg, tokens.Access)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, domain.RoleBeekeeper, claims.Role)

	_, _, err = svc.Login("keeper@example.org", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCreds)
	_, _, err = svc.Login("nobody@example.org", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCreds)
	logged, _, err := svc.Login("KEEPER@example.org", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	refreshed, err := svc.Refresh(tokens.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Access)
	_, err = svc.Refresh(tokens.Access)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRegisterRules(t *testing.T) {
	svc, _ := newAuth()
	u, _, err := svc.Register("v@example.org", "vol", "password1", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleVolunteer, u.Role)

	_, _, err = svc.Register("v@example.org", "other", "password1", "")
	assert.ErrorIs(t, err, ErrEmailExists)
	_, _, err = svc.Register("w@example.org", "vol", "password1", "")
	assert.ErrorIs(t, err, ErrUsernameExists)
	_, _, err = svc.Register("x@example.org", "boss", "password1", domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrInvalidRole)
}
