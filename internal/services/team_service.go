package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"github.com/hamdaan-dev/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameRequired = errors.New("team name is required")
	ErrTeamNameTaken    = errors.New("team name already exists")
)

// TeamService handles team CRUD.
type TeamService struct {
	teamRepo repository.TeamRepository
	audit    *AuditService
}

// NewTeamService creates a new TeamService
func NewTeamService(teamRepo repository.TeamRepository, audit *AuditService) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		audit:    audit,
	}
}

// List lists all teams
func (s *TeamService) List() ([]models.Team, error) {
	return s.teamRepo.List()
}

// Get returns a team by ID
func (s *TeamService) Get(id uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}

// Members returns a team's current members
func (s *TeamService) Members(id uint64) ([]models.User, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	return s.teamRepo.ListMembers(id)
}

// Create creates a team with a unique name
func (s *TeamService) Create(actor *models.User, team *models.Team) (*models.Team, error) {
	team.Name = strings.TrimSpace(team.Name)
	if team.Name == "" {
		return nil, ErrTeamNameRequired
	}

	if _, err := s.teamRepo.FindByName(team.Name); err == nil {
		return nil, ErrTeamNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check team name: %w", err)
	}

	if err := s.teamRepo.Create(team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	id := team.ID
	if err := s.audit.Log(&actor.ID, models.AuditActionCreate, "team", &id, team.Name, ""); err != nil {
		return nil, err
	}

	return team, nil
}

// Update updates a team's name and color
func (s *TeamService) Update(actor *models.User, id uint64, name *string, color *string) (*models.Team, error) {
	team, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if name != nil && strings.TrimSpace(*name) != "" {
		trimmed := strings.TrimSpace(*name)
		if existing, err := s.teamRepo.FindByName(trimmed); err == nil && existing.ID != id {
			return nil, ErrTeamNameTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check team name: %w", err)
		}
		team.Name = trimmed
	}
	if color != nil {
		team.Color = *color
	}

	if err := s.teamRepo.Update(team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	if err := s.audit.Log(&actor.ID, models.AuditActionUpdate, "team", &id, team.Name, ""); err != nil {
		return nil, err
	}

	return team, nil
}

// Delete removes a team. Users and tasks that pointed at it are detached,
// never deleted.
func (s *TeamService) Delete(actor *models.User, id uint64) error {
	team, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := s.teamRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	return s.audit.Log(&actor.ID, models.AuditActionDelete, "team", &id, team.Name, "")
}
