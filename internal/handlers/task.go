package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hamdaan-dev/taskboard-api/internal/dto"
	apierrors "github.com/hamdaan-dev/taskboard-api/internal/errors"
	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"github.com/hamdaan-dev/taskboard-api/internal/services"
)

// TaskHandler exposes the task CRUD and status state machine endpoints.
type TaskHandler struct {
	taskService     *services.TaskService
	reminderService *services.ReminderService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, reminderService *services.ReminderService) *TaskHandler {
	return &TaskHandler{
		taskService:     taskService,
		reminderService: reminderService,
	}
}

func (h *TaskHandler) respondTask(c *gin.Context, status int, task *models.Task) {
	summary, err := h.taskService.DescribeAssignment(task.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to resolve assignment")
		return
	}
	c.JSON(status, dto.ToTaskDTO(*task, summary.Label, summary.Assignees))
}

// ListEventTasks returns an event's tasks visible to the caller.
func (h *TaskHandler) ListEventTasks(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	viewer, ok := currentUser(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListByEvent(eventID, viewer)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	out := make([]dto.TaskDTO, 0, len(tasks))
	for _, task := range tasks {
		summary, err := h.taskService.DescribeAssignment(task.ID)
		if err != nil {
			apierrors.InternalError(c, "Failed to resolve assignment")
			return
		}
		out = append(out, dto.ToTaskDTO(task, summary.Label, summary.Assignees))
	}
	c.JSON(http.StatusOK, out)
}

// GetTask returns a single task with its resolved assignment.
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.respondTask(c, http.StatusOK, task)
}

// CreateTask creates a task under an event.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title          string   `json:"title" binding:"required,max=200"`
		Description    string   `json:"description"`
		TaskType       string   `json:"task_type"`
		AssignedTo     *uint64  `json:"assigned_to"`
		AssignedTeamID *uint64  `json:"assigned_team_id"`
		PoolUserIDs    []uint64 `json:"pool_user_ids"`
	}

	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	taskType := models.TaskTypeStandard
	if req.TaskType != "" {
		taskType = models.TaskType(req.TaskType)
		if taskType != models.TaskTypeStandard && taskType != models.TaskTypeSetup {
			apierrors.BadRequest(c, "Invalid task_type")
			return
		}
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	task, err := h.taskService.CreateTask(actor, services.CreateTaskInput{
		EventID:        eventID,
		Title:          req.Title,
		Description:    req.Description,
		TaskType:       taskType,
		AssignedTo:     req.AssignedTo,
		AssignedTeamID: req.AssignedTeamID,
		PoolUserIDs:    req.PoolUserIDs,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.respondTask(c, http.StatusCreated, task)
}

// UpdateTask updates a task's descriptive fields.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		TaskType    *string `json:"task_type"`
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var taskType *models.TaskType
	if req.TaskType != nil {
		t := models.TaskType(*req.TaskType)
		if t != models.TaskTypeStandard && t != models.TaskTypeSetup {
			apierrors.BadRequest(c, "Invalid task_type")
			return
		}
		taskType = &t
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	task, err := h.taskService.UpdateTask(actor, taskID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		TaskType:    taskType,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.respondTask(c, http.StatusOK, task)
}

// DeleteTask removes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(actor, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// MarkDone transitions a task from PENDING to DONE.
func (h *TaskHandler) MarkDone(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	task, err := h.taskService.MarkDone(c.Request.Context(), taskID, actor)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.respondTask(c, http.StatusOK, task)
}

// MarkCannotDo transitions a task from PENDING to CANNOT_DO with a reason.
func (h *TaskHandler) MarkCannotDo(c *gin.Context) {
	type CannotDoRequest struct {
		Reason string `json:"reason"`
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CannotDoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	task, err := h.taskService.MarkCannotDo(c.Request.Context(), taskID, actor, req.Reason)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.respondTask(c, http.StatusOK, task)
}

// UndoStatus returns a DONE or CANNOT_DO task to PENDING.
func (h *TaskHandler) UndoStatus(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	task, err := h.taskService.UndoStatus(taskID, actor)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.respondTask(c, http.StatusOK, task)
}

// Reassign replaces a task's assignment with at most one mechanism.
func (h *TaskHandler) Reassign(c *gin.Context) {
	type ReassignRequest struct {
		AssignedTo     *uint64  `json:"assigned_to"`
		AssignedTeamID *uint64  `json:"assigned_team_id"`
		PoolUserIDs    []uint64 `json:"pool_user_ids"`
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	task, err := h.taskService.Reassign(actor, taskID, services.ReassignInput{
		AssignedTo:     req.AssignedTo,
		AssignedTeamID: req.AssignedTeamID,
		PoolUserIDs:    req.PoolUserIDs,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.respondTask(c, http.StatusOK, task)
}

// SendReminder sends a manual reminder for one task, regardless of the
// auto-reminder state.
func (h *TaskHandler) SendReminder(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.reminderService.SendManualReminder(c.Request.Context(), taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reminder sent",
	})
}

// SendEventReminders sends manual reminders for every pending task of an
// event.
func (h *TaskHandler) SendEventReminders(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sent, err := h.reminderService.SendEventReminders(c.Request.Context(), eventID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reminders sent",
		"count":   sent,
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrEventNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotAuthorized):
		apierrors.UnauthorizedAction(c, err.Error())
	case errors.Is(err, services.ErrAdminOnly):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidStateTransition):
		apierrors.InvalidStateTransition(c, err.Error())
	case errors.Is(err, services.ErrReasonRequired):
		apierrors.ValidationError(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidAssignee),
		errors.Is(err, services.ErrInvalidAssignedTeam):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
