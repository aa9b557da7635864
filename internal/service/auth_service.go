package service

import (
	"errors"
	"strings"

	"vespawatch/config"
	"vespawatch/internal/auth"
	"vespawatch/internal/domain"
	"vespawatch/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists    = errors.New("email already registered")
	ErrUsernameExists = errors.New("username already taken")
	ErrInvalidCreds   = errors.New("invalid email or password")
	ErrInvalidRole    = errors.New("role cannot be self-assigned")
)

// UserStore is the subset of the user repository AuthService needs.
type UserStore interface {
	Create(u *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
}

type AuthService struct {
	cfg   *config.JWTConfig
	users UserStore
}

func NewAuthService(cfg *config.JWTConfig, users UserStore) *AuthService {
	return &AuthService{cfg: cfg, users: users}
}

// Tokens is an access/refresh pair.
type Tokens struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}

// Register creates a VOLUNTEER or BEEKEEPER account. ADMIN is never granted here.
func (s *AuthService) Register(email, username, password, role string) (*models.User, Tokens, error) {
	if role == "" {
		role = domain.RoleVolunteer
	}
	if role != domain.RoleVolunteer && role != domain.RoleBeekeeper {
		return nil, Tokens{}, ErrInvalidRole
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.users.GetByEmail(email); err == nil {
		return nil, Tokens{}, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Tokens{}, err
	}
	if _, err := s.users.GetByUsername(username); err == nil {
		return nil, Tokens{}, ErrUsernameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Tokens{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, Tokens{}, err
	}
	u := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(u); err != nil {
		return nil, Tokens{}, err
	}
	tokens, err := s.issue(u)
	return u, tokens, err
}

func (s *AuthService) Login(email, password string) (*models.User, Tokens, error) {
	u, err := s.users.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Tokens{}, ErrInvalidCreds
		}
		return nil, Tokens{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, Tokens{}, ErrInvalidCreds
	}
	tokens, err := s.issue(u)
	return u, tokens, err
}

func (s *AuthService) Refresh(refreshToken string) (Tokens, error) {
	userID, err := auth.ParseRefreshToken(s.cfg, refreshToken)
	if err != nil {
		return Tokens{}, err
	}
	u, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Tokens{}, auth.ErrInvalidToken
		}
		return Tokens{}, err
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *models.User) (Tokens, error) {
	access, err := auth.GenerateAccessToken(s.cfg, u.ID, u.Username, u.Role)
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := auth.GenerateRefreshToken(s.cfg, u.ID)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{Access: access, Refresh: refresh}, nil
}
