package models

import "time"

// Week spans 7 calendar days, Sunday through Saturday inclusive.
type Week struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	SemesterID uint64    `gorm:"not null;uniqueIndex:uq_semester_week_number" json:"semester_id"`
	WeekNumber int       `gorm:"not null;uniqueIndex:uq_semester_week_number" json:"week_number"`
	StartDate  time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate    time.Time `gorm:"type:date;not null" json:"end_date"`

	// Relations
	Semester Semester `gorm:"foreignKey:SemesterID" json:"semester,omitempty"`
	Events   []Event  `gorm:"foreignKey:WeekID" json:"events,omitempty"`
}
