package models

import "time"

type TaskType string

const (
	TaskTypeStandard TaskType = "STANDARD"
	TaskTypeSetup    TaskType = "SETUP"
)

type TaskStatus string

const (
	TaskStatusPending  TaskStatus = "PENDING"
	TaskStatusDone     TaskStatus = "DONE"
	TaskStatusCannotDo TaskStatus = "CANNOT_DO"
)

type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	EventID     uint64     `gorm:"not null;index" json:"event_id"`
	Title       string     `gorm:"type:varchar(200);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	TaskType    TaskType   `gorm:"type:varchar(20);not null;default:'STANDARD'" json:"task_type"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`

	// Assignment mechanisms. At most one is populated at a time by
	// convention; changing any of them resets Status to PENDING.
	AssignedTo     *uint64 `gorm:"index" json:"assigned_to"`
	AssignedTeamID *uint64 `gorm:"index" json:"assigned_team_id"`

	CompletedBy      *uint64   `json:"completed_by"`
	CannotDoReason   string    `gorm:"type:text" json:"cannot_do_reason"`
	AutoReminderSent bool      `gorm:"not null;default:false" json:"auto_reminder_sent"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Relations
	Event        Event            `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Assignee     *User            `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	AssignedTeam *Team            `gorm:"foreignKey:AssignedTeamID" json:"assigned_team,omitempty"`
	Assignments  []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
	Comments     []TaskComment    `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
}
