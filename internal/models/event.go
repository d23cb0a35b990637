package models

import "time"

type Event struct {
	ID       uint64    `gorm:"primarykey" json:"id"`
	WeekID   uint64    `gorm:"not null;index" json:"week_id"`
	Name     string    `gorm:"type:varchar(200);not null" json:"name"`
	StartsAt time.Time `gorm:"not null" json:"starts_at"`
	Location string    `gorm:"type:varchar(200)" json:"location"`

	// Relations
	Week  Week   `gorm:"foreignKey:WeekID" json:"week,omitempty"`
	Tasks []Task `gorm:"foreignKey:EventID" json:"tasks,omitempty"`
}
