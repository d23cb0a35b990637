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
	ErrSemesterNotFound     = errors.New("semester not found")
	ErrSemesterNameRequired = errors.New("semester name is required")
	ErrInvalidDateRange     = errors.New("end date must not be before start date")
)

// SemesterService handles semester lifecycle and the single-active-semester
// invariant.
type SemesterService struct {
	semesterRepo repository.SemesterRepository
	audit        *AuditService
}

// NewSemesterService creates a new SemesterService
func NewSemesterService(semesterRepo repository.SemesterRepository, audit *AuditService) *SemesterService {
	return &SemesterService{
		semesterRepo: semesterRepo,
		audit:        audit,
	}
}

// CreateSemesterInput represents input for creating a semester
type CreateSemesterInput struct {
	Name      string
	StartDate string
	EndDate   string
	IsActive  bool
}

// List lists all semesters, newest first
func (s *SemesterService) List() ([]models.Semester, error) {
	return s.semesterRepo.List()
}

// Get returns a semester by ID
func (s *SemesterService) Get(id uint64) (*models.Semester, error) {
	semester, err := s.semesterRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		return nil, fmt.Errorf("failed to find semester: %w", err)
	}
	return semester, nil
}

// Active returns the active semester, or nil when none is active
func (s *SemesterService) Active() (*models.Semester, error) {
	semester, err := s.semesterRepo.FindActive()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active semester: %w", err)
	}
	return semester, nil
}

// Create creates a semester. The row is created inactive; when requested
// active it goes through Activate so the invariant holds even while the
// create is in flight.
func (s *SemesterService) Create(actor *models.User, semester *models.Semester) (*models.Semester, error) {
	if strings.TrimSpace(semester.Name) == "" {
		return nil, ErrSemesterNameRequired
	}
	if semester.EndDate.Before(semester.StartDate) {
		return nil, ErrInvalidDateRange
	}

	wantActive := semester.IsActive
	semester.IsActive = false

	if err := s.semesterRepo.Create(semester); err != nil {
		return nil, fmt.Errorf("failed to create semester: %w", err)
	}

	if wantActive {
		if err := s.Activate(actor, semester.ID); err != nil {
			return nil, err
		}
		semester.IsActive = true
	}

	id := semester.ID
	if err := s.audit.Log(&actor.ID, models.AuditActionCreate, "semester", &id, semester.Name, ""); err != nil {
		return nil, err
	}

	return semester, nil
}

// Update applies changed fields to a semester. Activation state changes go
// through Activate.
func (s *SemesterService) Update(actor *models.User, semester *models.Semester) error {
	if strings.TrimSpace(semester.Name) == "" {
		return ErrSemesterNameRequired
	}
	if semester.EndDate.Before(semester.StartDate) {
		return ErrInvalidDateRange
	}

	if err := s.semesterRepo.Update(semester); err != nil {
		return fmt.Errorf("failed to update semester: %w", err)
	}

	id := semester.ID
	return s.audit.Log(&actor.ID, models.AuditActionUpdate, "semester", &id, semester.Name, "")
}

// Activate makes the given semester the single active one. The underlying
// write is one conditional statement over all rows, so concurrent
// activations cannot leave zero or two semesters active.
func (s *SemesterService) Activate(actor *models.User, id uint64) error {
	semester, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := s.semesterRepo.Activate(id); err != nil {
		return fmt.Errorf("failed to activate semester: %w", err)
	}

	return s.audit.Log(&actor.ID, models.AuditActionUpdate, "semester", &id, semester.Name, "activated")
}

// Delete removes a semester and its whole subtree. All-or-nothing; partial
// failure leaves the store untouched.
func (s *SemesterService) Delete(actor *models.User, id uint64) error {
	semester, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := s.semesterRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete semester: %w", err)
	}

	return s.audit.Log(&actor.ID, models.AuditActionDelete, "semester", &id, semester.Name, "")
}
