package models

import "time"

// TaskAssignment is a pool-assignment row: any listed user may act on the
// task. Pool membership is independent of roster membership.
type TaskAssignment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	TaskID    uint64    `gorm:"not null;uniqueIndex:uq_task_user" json:"task_id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uq_task_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
