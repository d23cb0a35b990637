package models

import "time"

// RosterMember links a user to a semester. Only rostered users are visible
// and assignable for that semester's tasks; administrators bypass the gate.
type RosterMember struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	SemesterID uint64    `gorm:"not null;uniqueIndex:uq_semester_user" json:"semester_id"`
	UserID     uint64    `gorm:"not null;uniqueIndex:uq_semester_user" json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Semester Semester `gorm:"foreignKey:SemesterID" json:"semester,omitempty"`
	User     User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
