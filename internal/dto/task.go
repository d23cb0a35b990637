package dto

import (
	"time"

	"github.com/hamdaan-dev/taskboard-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          uint64  `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	DiscordID   string  `json:"discord_id,omitempty"`
	Role        string  `json:"role"`
	TeamID      *uint64 `json:"team_id,omitempty"`
}

// ToUserDTO converts a user model to its API representation
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		DiscordID:   user.DiscordID,
		Role:        string(user.Role),
		TeamID:      user.TeamID,
	}
}

// TaskDTO represents a task in API responses, including the resolved
// assignment summary.
type TaskDTO struct {
	ID               uint64            `json:"id"`
	EventID          uint64            `json:"event_id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	TaskType         models.TaskType   `json:"task_type"`
	Status           models.TaskStatus `json:"status"`
	AssignedTo       *uint64           `json:"assigned_to"`
	AssignedTeamID   *uint64           `json:"assigned_team_id"`
	CompletedBy      *uint64           `json:"completed_by"`
	CannotDoReason   string            `json:"cannot_do_reason,omitempty"`
	AutoReminderSent bool              `json:"auto_reminder_sent"`
	AssigneeLabel    string            `json:"assignee_label"`
	Assignees        []UserDTO         `json:"assignees"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// ToTaskDTO converts a task model plus its assignment summary label and
// assignee list to the API representation.
func ToTaskDTO(task models.Task, label string, assignees []models.User) TaskDTO {
	users := make([]UserDTO, 0, len(assignees))
	for _, u := range assignees {
		users = append(users, ToUserDTO(u))
	}

	return TaskDTO{
		ID:               task.ID,
		EventID:          task.EventID,
		Title:            task.Title,
		Description:      task.Description,
		TaskType:         task.TaskType,
		Status:           task.Status,
		AssignedTo:       task.AssignedTo,
		AssignedTeamID:   task.AssignedTeamID,
		CompletedBy:      task.CompletedBy,
		CannotDoReason:   task.CannotDoReason,
		AutoReminderSent: task.AutoReminderSent,
		AssigneeLabel:    label,
		Assignees:        users,
		CreatedAt:        task.CreatedAt,
		UpdatedAt:        task.UpdatedAt,
	}
}
