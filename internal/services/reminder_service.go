package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"github.com/hamdaan-dev/taskboard-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReminderService decides which tasks get an automatic reminder and performs
// the claim-then-send unit. It holds no timer state; an external tick drives
// it.
type ReminderService struct {
	taskRepo  repository.TaskRepository
	eventRepo repository.EventRepository
	resolver  *AssignmentResolver
	notifier  Notifier
	logger    *zap.Logger
	window    time.Duration
}

// NewReminderService creates a new ReminderService
func NewReminderService(
	taskRepo repository.TaskRepository,
	eventRepo repository.EventRepository,
	resolver *AssignmentResolver,
	notifier Notifier,
	logger *zap.Logger,
	window time.Duration,
) *ReminderService {
	return &ReminderService{
		taskRepo:  taskRepo,
		eventRepo: eventRepo,
		resolver:  resolver,
		notifier:  notifier,
		logger:    logger,
		window:    window,
	}
}

// Eligible is the pure reminder predicate: PENDING, STANDARD, event within
// [now, now+window], not yet auto-reminded.
func Eligible(now, eventTime time.Time, taskType models.TaskType, status models.TaskStatus, alreadySent bool, window time.Duration) bool {
	if status != models.TaskStatusPending || taskType != models.TaskTypeStandard || alreadySent {
		return false
	}
	return !eventTime.Before(now) && !eventTime.After(now.Add(window))
}

// Tick runs one reminder pass. For each eligible task the auto-reminder flag
// is claimed with a conditional write before anything is sent; a lost claim
// means another tick or replica owns this reminder, so the task is skipped.
// Returns the number of tasks for which reminders were dispatched.
func (s *ReminderService) Tick(ctx context.Context, now time.Time) (int, error) {
	tasks, err := s.taskRepo.ReminderCandidates(now, now.Add(s.window))
	if err != nil {
		return 0, fmt.Errorf("failed to scan reminder candidates: %w", err)
	}

	sent := 0
	for i := range tasks {
		task := &tasks[i]

		claimed, err := s.taskRepo.ClaimAutoReminder(task.ID)
		if err != nil {
			s.logger.Error("failed to claim auto-reminder",
				zap.Uint64("task_id", task.ID),
				zap.Error(err))
			continue
		}
		if !claimed {
			continue
		}

		s.dispatch(ctx, task, task.Event.Name)
		sent++
	}

	return sent, nil
}

// SendManualReminder sends a reminder for one task, regardless of window,
// status, or the auto-reminder flag. Manual and automatic reminders are
// independent channels; the flag is left untouched.
func (s *ReminderService) SendManualReminder(ctx context.Context, taskID uint64) error {
	task, err := s.taskRepo.FindByID(taskID, "Event")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	s.dispatch(ctx, task, task.Event.Name)
	return nil
}

// SendEventReminders sends a manual reminder for every still-pending task of
// an event.
func (s *ReminderService) SendEventReminders(ctx context.Context, eventID uint64) (int, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrEventNotFound
		}
		return 0, fmt.Errorf("failed to find event: %w", err)
	}

	tasks, err := s.taskRepo.ListByEvent(eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to list event tasks: %w", err)
	}

	sent := 0
	for i := range tasks {
		if tasks[i].Status != models.TaskStatusPending {
			continue
		}
		s.dispatch(ctx, &tasks[i], event.Name)
		sent++
	}

	return sent, nil
}

// dispatch sends a reminder ping to every resolved assignee with a Discord
// handle. Assignees without a handle are skipped and logged; a failed send
// never fails the batch.
func (s *ReminderService) dispatch(ctx context.Context, task *models.Task, eventName string) {
	recipients, err := s.resolver.Recipients(task)
	if err != nil {
		s.logger.Error("failed to resolve reminder recipients",
			zap.Uint64("task_id", task.ID),
			zap.Error(err))
		return
	}

	for _, user := range recipients {
		if user.DiscordID == "" {
			s.logger.Info("skipping reminder for user without discord handle",
				zap.Uint64("task_id", task.ID),
				zap.Uint64("user_id", user.ID))
			continue
		}

		if err := s.notifier.SendReminder(ctx, user.DiscordID, task.Title, eventName); err != nil {
			s.logger.Error("failed to send reminder",
				zap.Uint64("task_id", task.ID),
				zap.Uint64("user_id", user.ID),
				zap.Error(err))
		}
	}
}
