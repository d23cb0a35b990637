package services

import (
	"errors"
	"fmt"

	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"github.com/hamdaan-dev/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

var ErrNotOnRoster = errors.New("user is not on the semester's roster")

// RosterService manages the per-semester allow-list of assignable users.
type RosterService struct {
	rosterRepo   repository.RosterRepository
	semesterRepo repository.SemesterRepository
	userRepo     repository.UserRepository
}

// NewRosterService creates a new RosterService
func NewRosterService(rosterRepo repository.RosterRepository, semesterRepo repository.SemesterRepository, userRepo repository.UserRepository) *RosterService {
	return &RosterService{
		rosterRepo:   rosterRepo,
		semesterRepo: semesterRepo,
		userRepo:     userRepo,
	}
}

// RosterActionResult reports how many users an add operation touched.
type RosterActionResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// List returns a semester's roster with user data
func (s *RosterService) List(semesterID uint64) ([]models.RosterMember, error) {
	if err := s.ensureSemester(semesterID); err != nil {
		return nil, err
	}
	return s.rosterRepo.ListBySemester(semesterID)
}

// Add adds the given users to a semester's roster. Unknown users and users
// already rostered are skipped, not errors.
func (s *RosterService) Add(semesterID uint64, userIDs []uint64) (*RosterActionResult, error) {
	if err := s.ensureSemester(semesterID); err != nil {
		return nil, err
	}

	result := &RosterActionResult{}
	for _, userID := range uniqueUint64(userIDs) {
		if _, err := s.userRepo.FindByID(userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.Skipped++
				continue
			}
			return nil, fmt.Errorf("failed to verify user: %w", err)
		}

		onRoster, err := s.rosterRepo.IsOnRoster(semesterID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check roster: %w", err)
		}
		if onRoster {
			result.Skipped++
			continue
		}

		member := &models.RosterMember{SemesterID: semesterID, UserID: userID}
		if err := s.rosterRepo.Add(member); err != nil {
			return nil, fmt.Errorf("failed to add roster member: %w", err)
		}
		result.Added++
	}

	return result, nil
}

// AddAll adds every non-admin user to the semester's roster
func (s *RosterService) AddAll(semesterID uint64) (*RosterActionResult, error) {
	if err := s.ensureSemester(semesterID); err != nil {
		return nil, err
	}

	available, err := s.rosterRepo.ListAvailableUsers(semesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list available users: %w", err)
	}

	result := &RosterActionResult{}
	for _, user := range available {
		member := &models.RosterMember{SemesterID: semesterID, UserID: user.ID}
		if err := s.rosterRepo.Add(member); err != nil {
			return nil, fmt.Errorf("failed to add roster member: %w", err)
		}
		result.Added++
	}

	return result, nil
}

// Remove removes a user from a semester's roster
func (s *RosterService) Remove(semesterID, userID uint64) error {
	if _, err := s.rosterRepo.Find(semesterID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotOnRoster
		}
		return fmt.Errorf("failed to find roster member: %w", err)
	}

	return s.rosterRepo.Remove(semesterID, userID)
}

// AvailableUsers lists non-admin users not yet on the roster
func (s *RosterService) AvailableUsers(semesterID uint64) ([]models.User, error) {
	if err := s.ensureSemester(semesterID); err != nil {
		return nil, err
	}
	return s.rosterRepo.ListAvailableUsers(semesterID)
}

// IsOnRoster reports whether a user is on a semester's roster. Admins pass
// the visibility gate without a roster entry.
func (s *RosterService) IsOnRoster(semesterID, userID uint64) (bool, error) {
	return s.rosterRepo.IsOnRoster(semesterID, userID)
}

func (s *RosterService) ensureSemester(semesterID uint64) error {
	if _, err := s.semesterRepo.FindByID(semesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSemesterNotFound
		}
		return fmt.Errorf("failed to find semester: %w", err)
	}
	return nil
}
