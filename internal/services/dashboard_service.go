package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hamdaan-dev/taskboard-api/internal/dto"
	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"github.com/hamdaan-dev/taskboard-api/internal/repository"
)

// DashboardService assembles the active semester's week/event/task tree,
// filtered to what the viewer is allowed to see.
type DashboardService struct {
	semesterRepo repository.SemesterRepository
	weekRepo     repository.WeekRepository
	eventRepo    repository.EventRepository
	taskRepo     repository.TaskRepository
	resolver     *AssignmentResolver
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	semesterRepo repository.SemesterRepository,
	weekRepo repository.WeekRepository,
	eventRepo repository.EventRepository,
	taskRepo repository.TaskRepository,
	resolver *AssignmentResolver,
) *DashboardService {
	return &DashboardService{
		semesterRepo: semesterRepo,
		weekRepo:     weekRepo,
		eventRepo:    eventRepo,
		taskRepo:     taskRepo,
		resolver:     resolver,
	}
}

const dateLayout = "2006-01-02"

// Build returns the dashboard for the active semester. Administrators see
// every task; members see only tasks that resolve to them. The pending count
// per event excludes SETUP tasks. With no active semester the response is an
// empty shell rather than an error.
func (s *DashboardService) Build(viewer *models.User, now time.Time) (*dto.DashboardResponse, error) {
	resp := &dto.DashboardResponse{
		Weeks:    []dto.DashboardWeek{},
		UserRole: string(viewer.Role),
	}

	semester, err := s.semesterRepo.FindActive()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resp, nil
		}
		return nil, fmt.Errorf("failed to find active semester: %w", err)
	}
	resp.SemesterID = &semester.ID
	resp.SemesterName = &semester.Name

	weeks, err := s.weekRepo.ListBySemester(semester.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list weeks: %w", err)
	}

	// Week bounds are stored as UTC midnights; compare against the caller's
	// calendar date rather than the raw instant.
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	for _, week := range weeks {
		dw := dto.DashboardWeek{
			ID:         week.ID,
			WeekNumber: week.WeekNumber,
			StartDate:  week.StartDate.Format(dateLayout),
			EndDate:    week.EndDate.Format(dateLayout),
			IsCurrent:  !today.Before(week.StartDate) && !today.After(week.EndDate),
			Events:     []dto.DashboardEvent{},
		}

		events, err := s.eventRepo.ListByWeek(week.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list events: %w", err)
		}

		for _, event := range events {
			de, err := s.buildEvent(&event, viewer)
			if err != nil {
				return nil, err
			}
			dw.Events = append(dw.Events, *de)
		}

		resp.Weeks = append(resp.Weeks, dw)
	}

	return resp, nil
}

func (s *DashboardService) buildEvent(event *models.Event, viewer *models.User) (*dto.DashboardEvent, error) {
	de := &dto.DashboardEvent{
		ID:       event.ID,
		Name:     event.Name,
		StartsAt: event.StartsAt.Format(time.RFC3339),
		Location: event.Location,
		Tasks:    []dto.TaskDTO{},
	}

	tasks, err := s.taskRepo.ListByEvent(event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	for i := range tasks {
		task := &tasks[i]
		if !viewer.IsAdmin() {
			ok, err := s.resolver.CanAct(task, viewer)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}

		summary, err := s.resolver.Describe(task)
		if err != nil {
			return nil, err
		}
		de.Tasks = append(de.Tasks, dto.ToTaskDTO(*task, summary.Label, summary.Assignees))

		if task.Status == models.TaskStatusPending && task.TaskType != models.TaskTypeSetup {
			de.PendingCount++
		}
	}

	return de, nil
}
