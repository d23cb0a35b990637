package models

import "time"

type Team struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Color     string    `gorm:"type:varchar(7)" json:"color"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Members []User `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}
