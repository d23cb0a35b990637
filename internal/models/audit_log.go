package models

import "time"

// Audit action tags emitted by the task state machine. Surrounding CRUD uses
// the generic CREATE/UPDATE/DELETE/LOGIN/LOGOUT tags.
const (
	AuditActionCreate       = "CREATE"
	AuditActionUpdate       = "UPDATE"
	AuditActionDelete       = "DELETE"
	AuditActionLogin        = "LOGIN"
	AuditActionLogout       = "LOGOUT"
	AuditActionTaskDone     = "TASK_DONE"
	AuditActionTaskCannotDo = "TASK_CANNOT_DO"
	AuditActionTaskUndo     = "TASK_UNDO"
)

// AuditLog is an append-only record. Rows are never updated or deleted by
// normal operation. UserID is nil for system-initiated actions.
type AuditLog struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	UserID     *uint64   `json:"user_id"`
	Action     string    `gorm:"type:varchar(50);not null" json:"action"`
	EntityType string    `gorm:"type:varchar(50);not null" json:"entity_type"`
	EntityID   *uint64   `json:"entity_id"`
	EntityName string    `gorm:"type:varchar(200)" json:"entity_name"`
	Details    string    `gorm:"type:text" json:"details"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
