package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"github.com/hamdaan-dev/taskboard-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrEventNotFound          = errors.New("event not found")
	ErrNotAuthorized          = errors.New("user may not act on this task")
	ErrInvalidStateTransition = errors.New("action not permitted from the current task status")
	ErrReasonRequired         = errors.New("a reason is required to mark a task cannot-do")
	ErrTitleRequired          = errors.New("title is required")
	ErrAdminOnly              = errors.New("administrator role required")
	ErrInvalidAssignee        = errors.New("one or more assignees do not exist")
	ErrInvalidAssignedTeam    = errors.New("assigned team does not exist")
)

// TaskService owns the task status state machine and its side effects.
type TaskService struct {
	taskRepo  repository.TaskRepository
	eventRepo repository.EventRepository
	teamRepo  repository.TeamRepository
	userRepo  repository.UserRepository
	resolver  *AssignmentResolver
	audit     *AuditService
	notifier  Notifier
	logger    *zap.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	eventRepo repository.EventRepository,
	teamRepo repository.TeamRepository,
	userRepo repository.UserRepository,
	resolver *AssignmentResolver,
	audit *AuditService,
	notifier Notifier,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		eventRepo: eventRepo,
		teamRepo:  teamRepo,
		userRepo:  userRepo,
		resolver:  resolver,
		audit:     audit,
		notifier:  notifier,
		logger:    logger,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	EventID        uint64
	Title          string
	Description    string
	TaskType       models.TaskType
	AssignedTo     *uint64
	AssignedTeamID *uint64
	PoolUserIDs    []uint64
}

// UpdateTaskInput represents input for updating a task's descriptive fields
type UpdateTaskInput struct {
	Title       *string
	Description *string
	TaskType    *models.TaskType
}

// ReassignInput carries the new assignment for a task. At most one mechanism
// may be populated; the other two are cleared.
type ReassignInput struct {
	AssignedTo     *uint64
	AssignedTeamID *uint64
	PoolUserIDs    []uint64
}

// ListByEvent returns an event's tasks visible to the viewer. Administrators
// see everything; members see only tasks that resolve to them through any of
// the three mechanisms.
func (s *TaskService) ListByEvent(eventID uint64, viewer *models.User) ([]models.Task, error) {
	if _, err := s.eventRepo.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	tasks, err := s.taskRepo.ListByEvent(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	if viewer.IsAdmin() {
		return tasks, nil
	}

	visible := make([]models.Task, 0, len(tasks))
	for i := range tasks {
		poolIDs := make([]uint64, 0, len(tasks[i].Assignments))
		for _, a := range tasks[i].Assignments {
			poolIDs = append(poolIDs, a.UserID)
		}
		if CanAct(&tasks[i], viewer, poolIDs) {
			visible = append(visible, tasks[i])
		}
	}
	return visible, nil
}

// GetTask returns a task with its relations loaded
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Event", "Assignee", "AssignedTeam", "Assignments", "Assignments.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTask creates a task under an event. Admin only.
func (s *TaskService) CreateTask(actor *models.User, input CreateTaskInput) (*models.Task, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	if _, err := s.eventRepo.FindByID(input.EventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	if err := s.validateAssignment(ReassignInput{
		AssignedTo:     input.AssignedTo,
		AssignedTeamID: input.AssignedTeamID,
		PoolUserIDs:    input.PoolUserIDs,
	}); err != nil {
		return nil, err
	}

	if input.TaskType == "" {
		input.TaskType = models.TaskTypeStandard
	}

	task := &models.Task{
		EventID:        input.EventID,
		Title:          input.Title,
		Description:    input.Description,
		TaskType:       input.TaskType,
		Status:         models.TaskStatusPending,
		AssignedTo:     input.AssignedTo,
		AssignedTeamID: input.AssignedTeamID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if len(input.PoolUserIDs) > 0 {
		if err := s.taskRepo.ReplacePool(task.ID, uniqueUint64(input.PoolUserIDs)); err != nil {
			return nil, fmt.Errorf("failed to set assignment pool: %w", err)
		}
	}

	if err := s.audit.LogTaskAction(actor.ID, models.AuditActionCreate, task, ""); err != nil {
		return nil, err
	}

	return s.GetTask(task.ID)
}

// UpdateTask updates a task's descriptive fields. Admin only. Assignment
// changes go through Reassign.
func (s *TaskService) UpdateTask(actor *models.User, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.TaskType != nil {
		task.TaskType = *input.TaskType
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if err := s.audit.LogTaskAction(actor.ID, models.AuditActionUpdate, task, ""); err != nil {
		return nil, err
	}

	return s.GetTask(task.ID)
}

// DeleteTask deletes a task. Admin only.
func (s *TaskService) DeleteTask(actor *models.User, taskID uint64) error {
	if !actor.IsAdmin() {
		return ErrAdminOnly
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return s.audit.LogTaskAction(actor.ID, models.AuditActionDelete, task, "")
}

// MarkDone transitions PENDING → DONE. The actor must pass the assignment
// check; any other current status is an invalid transition, not an
// overwrite.
func (s *TaskService) MarkDone(ctx context.Context, taskID uint64, actor *models.User) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCanAct(task, actor); err != nil {
		return nil, err
	}

	if task.Status != models.TaskStatusPending {
		return nil, ErrInvalidStateTransition
	}

	task.Status = models.TaskStatusDone
	task.CompletedBy = &actor.ID

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to mark task done: %w", err)
	}

	if err := s.audit.LogTaskAction(actor.ID, models.AuditActionTaskDone, task, ""); err != nil {
		return nil, err
	}

	return s.GetTask(task.ID)
}

// MarkCannotDo transitions PENDING → CANNOT_DO. Requires a non-empty reason
// and triggers an admin-channel alert. A failed alert is logged and never
// rolls back the transition.
func (s *TaskService) MarkCannotDo(ctx context.Context, taskID uint64, actor *models.User, reason string) (*models.Task, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCanAct(task, actor); err != nil {
		return nil, err
	}

	if task.Status != models.TaskStatusPending {
		return nil, ErrInvalidStateTransition
	}

	task.Status = models.TaskStatusCannotDo
	task.CompletedBy = &actor.ID
	task.CannotDoReason = reason

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to mark task cannot-do: %w", err)
	}

	if err := s.audit.LogTaskAction(actor.ID, models.AuditActionTaskCannotDo, task, reason); err != nil {
		return nil, err
	}

	eventName := "Unknown Event"
	if event, err := s.eventRepo.FindByID(task.EventID); err == nil {
		eventName = event.Name
	}

	if err := s.notifier.SendCannotDoAlert(ctx, actor.DisplayName, task.Title, eventName, reason); err != nil {
		s.logger.Error("failed to send cannot-do alert",
			zap.Uint64("task_id", task.ID),
			zap.Error(err))
	}

	return s.GetTask(task.ID)
}

// UndoStatus transitions DONE or CANNOT_DO back to PENDING, clearing the
// completion fields.
func (s *TaskService) UndoStatus(taskID uint64, actor *models.User) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCanAct(task, actor); err != nil {
		return nil, err
	}

	if task.Status != models.TaskStatusDone && task.Status != models.TaskStatusCannotDo {
		return nil, ErrInvalidStateTransition
	}

	task.Status = models.TaskStatusPending
	task.CompletedBy = nil
	task.CannotDoReason = ""

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to undo task status: %w", err)
	}

	if err := s.audit.LogTaskAction(actor.ID, models.AuditActionTaskUndo, task, ""); err != nil {
		return nil, err
	}

	return s.GetTask(task.ID)
}

// Reassign replaces the task's assignment. Admin only. Reassignment voids
// prior completion claims: status is forced back to PENDING regardless of
// the current status, the completion fields are cleared, and the
// auto-reminder flag resets so the new assignees get their own reminder.
func (s *TaskService) Reassign(actor *models.User, taskID uint64, input ReassignInput) (*models.Task, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if err := s.validateAssignment(input); err != nil {
		return nil, err
	}

	poolIDs := uniqueUint64(input.PoolUserIDs)

	// Populating one mechanism clears the other two.
	switch {
	case input.AssignedTo != nil:
		task.AssignedTo = input.AssignedTo
		task.AssignedTeamID = nil
		poolIDs = nil
	case input.AssignedTeamID != nil:
		task.AssignedTo = nil
		task.AssignedTeamID = input.AssignedTeamID
		poolIDs = nil
	default:
		task.AssignedTo = nil
		task.AssignedTeamID = nil
	}

	task.Status = models.TaskStatusPending
	task.CompletedBy = nil
	task.CannotDoReason = ""
	task.AutoReminderSent = false

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to reassign task: %w", err)
	}

	if err := s.taskRepo.ReplacePool(task.ID, poolIDs); err != nil {
		return nil, fmt.Errorf("failed to replace assignment pool: %w", err)
	}

	if err := s.audit.LogTaskAction(actor.ID, models.AuditActionUpdate, task, "reassigned"); err != nil {
		return nil, err
	}

	return s.GetTask(task.ID)
}

// DescribeAssignment returns the human-readable assignment summary for a
// task.
func (s *TaskService) DescribeAssignment(taskID uint64) (AssignmentSummary, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return AssignmentSummary{}, err
	}
	return s.resolver.Describe(task)
}

func (s *TaskService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ensureCanAct re-evaluates the assignment check on every attempt. Never
// cached; team and pool membership change between requests.
func (s *TaskService) ensureCanAct(task *models.Task, actor *models.User) error {
	permitted, err := s.resolver.CanAct(task, actor)
	if err != nil {
		return err
	}
	if !permitted {
		return ErrNotAuthorized
	}
	return nil
}

func (s *TaskService) validateAssignment(input ReassignInput) error {
	if input.AssignedTo != nil {
		if _, err := s.userRepo.FindByID(*input.AssignedTo); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidAssignee
			}
			return fmt.Errorf("failed to verify assignee: %w", err)
		}
		return nil
	}

	if input.AssignedTeamID != nil {
		if _, err := s.teamRepo.FindByID(*input.AssignedTeamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidAssignedTeam
			}
			return fmt.Errorf("failed to verify assigned team: %w", err)
		}
		return nil
	}

	if len(input.PoolUserIDs) > 0 {
		ids := uniqueUint64(input.PoolUserIDs)
		count, err := s.taskRepo.CountUsersByIDs(ids)
		if err != nil {
			return fmt.Errorf("failed to verify pool users: %w", err)
		}
		if int(count) != len(ids) {
			return ErrInvalidAssignee
		}
	}

	return nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
