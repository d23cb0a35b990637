package services

import (
	"errors"
	"fmt"

	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"github.com/hamdaan-dev/taskboard-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	audit    *AuditService
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, audit *AuditService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		audit:    audit,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	id := user.ID
	if err := s.audit.Log(&id, models.AuditActionLogin, "user", &id, user.DisplayName, ""); err != nil {
		return nil, err
	}

	return user, nil
}

// Logout records the logout in the audit log.
func (s *AuthService) Logout(userID uint64) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}
	return s.audit.Log(&userID, models.AuditActionLogout, "user", &userID, user.DisplayName, "")
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
