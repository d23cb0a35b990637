package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hamdaan-dev/taskboard-api/internal/constants"
	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"github.com/hamdaan-dev/taskboard-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken    = errors.New("username already exists")
	ErrPasswordTooShort = errors.New("password too short")
	ErrUserNotFound     = errors.New("user not found")
)

// UserService handles administrator-driven user management.
type UserService struct {
	userRepo repository.UserRepository
	teamRepo repository.TeamRepository
	audit    *AuditService
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, teamRepo repository.TeamRepository, audit *AuditService) *UserService {
	return &UserService{
		userRepo: userRepo,
		teamRepo: teamRepo,
		audit:    audit,
	}
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	Username    string
	Password    string
	DisplayName string
	DiscordID   string
	Role        models.Role
	TeamID      *uint64
}

// UpdateUserInput represents input for updating a user. Nil fields are left
// untouched; ClearTeam removes the team membership.
type UpdateUserInput struct {
	Password    *string
	DisplayName *string
	DiscordID   *string
	Role        *models.Role
	TeamID      *uint64
	ClearTeam   bool
}

// List lists all users
func (s *UserService) List() ([]models.User, error) {
	return s.userRepo.List()
}

// Get returns a user by ID
func (s *UserService) Get(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Create creates a user. Admin only (enforced at the route level).
func (s *UserService) Create(actor *models.User, input CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, errors.New("username is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if input.TeamID != nil {
		if _, err := s.teamRepo.FindByID(*input.TeamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to verify team: %w", err)
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = models.RoleMember
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		DisplayName:  input.DisplayName,
		DiscordID:    input.DiscordID,
		Role:         role,
		TeamID:       input.TeamID,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id := user.ID
	if err := s.audit.Log(&actor.ID, models.AuditActionCreate, "user", &id, user.DisplayName, ""); err != nil {
		return nil, err
	}

	return user, nil
}

// Update updates a user. Role changes require explicit admin action, which
// the route-level gate guarantees.
func (s *UserService) Update(actor *models.User, id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}
	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}
	if input.DiscordID != nil {
		user.DiscordID = *input.DiscordID
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.ClearTeam {
		user.TeamID = nil
	} else if input.TeamID != nil {
		if _, err := s.teamRepo.FindByID(*input.TeamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to verify team: %w", err)
		}
		user.TeamID = input.TeamID
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := s.audit.Log(&actor.ID, models.AuditActionUpdate, "user", &id, user.DisplayName, ""); err != nil {
		return nil, err
	}

	return user, nil
}

// Delete removes a user with their join rows
func (s *UserService) Delete(actor *models.User, id uint64) error {
	user, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return s.audit.Log(&actor.ID, models.AuditActionDelete, "user", &id, user.DisplayName, "")
}
