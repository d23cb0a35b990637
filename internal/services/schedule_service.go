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
	ErrWeekNotFound        = errors.New("week not found")
	ErrWeekOutOfBounds     = errors.New("week dates must be within semester bounds")
	ErrDuplicateWeekNumber = errors.New("week number already exists in this semester")
	ErrEventNameRequired   = errors.New("event name is required")
)

// ScheduleService manages the week and event levels of the containment
// tree.
type ScheduleService struct {
	weekRepo     repository.WeekRepository
	eventRepo    repository.EventRepository
	semesterRepo repository.SemesterRepository
	audit        *AuditService
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(
	weekRepo repository.WeekRepository,
	eventRepo repository.EventRepository,
	semesterRepo repository.SemesterRepository,
	audit *AuditService,
) *ScheduleService {
	return &ScheduleService{
		weekRepo:     weekRepo,
		eventRepo:    eventRepo,
		semesterRepo: semesterRepo,
		audit:        audit,
	}
}

// ListWeeks lists a semester's weeks in order
func (s *ScheduleService) ListWeeks(semesterID uint64) ([]models.Week, error) {
	if _, err := s.semesterRepo.FindByID(semesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		return nil, fmt.Errorf("failed to find semester: %w", err)
	}
	return s.weekRepo.ListBySemester(semesterID)
}

// CreateWeek creates a week under a semester, validating bounds and the
// week-number uniqueness.
func (s *ScheduleService) CreateWeek(actor *models.User, week *models.Week) (*models.Week, error) {
	semester, err := s.semesterRepo.FindByID(week.SemesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		return nil, fmt.Errorf("failed to find semester: %w", err)
	}

	if week.StartDate.Before(semester.StartDate) || week.EndDate.After(semester.EndDate) {
		return nil, ErrWeekOutOfBounds
	}

	if _, err := s.weekRepo.FindByNumber(week.SemesterID, week.WeekNumber); err == nil {
		return nil, ErrDuplicateWeekNumber
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check week number: %w", err)
	}

	if err := s.weekRepo.Create(week); err != nil {
		return nil, fmt.Errorf("failed to create week: %w", err)
	}

	id := week.ID
	name := fmt.Sprintf("Week %d", week.WeekNumber)
	if err := s.audit.Log(&actor.ID, models.AuditActionCreate, "week", &id, name, ""); err != nil {
		return nil, err
	}

	return week, nil
}

// UpdateWeek updates a week's dates
func (s *ScheduleService) UpdateWeek(actor *models.User, week *models.Week) error {
	if err := s.weekRepo.Update(week); err != nil {
		return fmt.Errorf("failed to update week: %w", err)
	}

	id := week.ID
	name := fmt.Sprintf("Week %d", week.WeekNumber)
	return s.audit.Log(&actor.ID, models.AuditActionUpdate, "week", &id, name, "")
}

// GetWeek returns a week by ID
func (s *ScheduleService) GetWeek(id uint64) (*models.Week, error) {
	week, err := s.weekRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWeekNotFound
		}
		return nil, fmt.Errorf("failed to find week: %w", err)
	}
	return week, nil
}

// DeleteWeek removes a week and its events and tasks in one transaction
func (s *ScheduleService) DeleteWeek(actor *models.User, id uint64) error {
	week, err := s.GetWeek(id)
	if err != nil {
		return err
	}

	if err := s.weekRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete week: %w", err)
	}

	name := fmt.Sprintf("Week %d", week.WeekNumber)
	return s.audit.Log(&actor.ID, models.AuditActionDelete, "week", &id, name, "")
}

// ListEvents lists a week's events in chronological order
func (s *ScheduleService) ListEvents(weekID uint64) ([]models.Event, error) {
	if _, err := s.weekRepo.FindByID(weekID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWeekNotFound
		}
		return nil, fmt.Errorf("failed to find week: %w", err)
	}
	return s.eventRepo.ListByWeek(weekID)
}

// GetEvent returns an event by ID
func (s *ScheduleService) GetEvent(id uint64) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}

// CreateEvent creates an event under a week
func (s *ScheduleService) CreateEvent(actor *models.User, event *models.Event) (*models.Event, error) {
	if strings.TrimSpace(event.Name) == "" {
		return nil, ErrEventNameRequired
	}

	if _, err := s.weekRepo.FindByID(event.WeekID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWeekNotFound
		}
		return nil, fmt.Errorf("failed to find week: %w", err)
	}

	if err := s.eventRepo.Create(event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	id := event.ID
	if err := s.audit.Log(&actor.ID, models.AuditActionCreate, "event", &id, event.Name, ""); err != nil {
		return nil, err
	}

	return event, nil
}

// UpdateEvent updates an event
func (s *ScheduleService) UpdateEvent(actor *models.User, event *models.Event) error {
	if strings.TrimSpace(event.Name) == "" {
		return ErrEventNameRequired
	}

	if err := s.eventRepo.Update(event); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	id := event.ID
	return s.audit.Log(&actor.ID, models.AuditActionUpdate, "event", &id, event.Name, "")
}

// DeleteEvent removes an event and its tasks in one transaction
func (s *ScheduleService) DeleteEvent(actor *models.User, id uint64) error {
	event, err := s.GetEvent(id)
	if err != nil {
		return err
	}

	if err := s.eventRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	return s.audit.Log(&actor.ID, models.AuditActionDelete, "event", &id, event.Name, "")
}
