package repository

import (
	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// GormRosterRepository is a GORM implementation of RosterRepository
type GormRosterRepository struct {
	db *gorm.DB
}

// NewRosterRepository creates a new RosterRepository
func NewRosterRepository(db *gorm.DB) RosterRepository {
	return &GormRosterRepository{db: db}
}

// Add adds a user to a semester's roster
func (r *GormRosterRepository) Add(member *models.RosterMember) error {
	return r.db.Create(member).Error
}

// Remove removes a user from a semester's roster
func (r *GormRosterRepository) Remove(semesterID, userID uint64) error {
	return r.db.Where("semester_id = ? AND user_id = ?", semesterID, userID).
		Delete(&models.RosterMember{}).Error
}

// Find finds a specific roster entry
func (r *GormRosterRepository) Find(semesterID, userID uint64) (*models.RosterMember, error) {
	var member models.RosterMember
	if err := r.db.Where("semester_id = ? AND user_id = ?", semesterID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListBySemester lists the roster of a semester with user data
func (r *GormRosterRepository) ListBySemester(semesterID uint64) ([]models.RosterMember, error) {
	var members []models.RosterMember
	err := r.db.Preload("User").Preload("User.Team").
		Where("semester_id = ?", semesterID).
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// IsOnRoster reports whether a user is on a semester's roster
func (r *GormRosterRepository) IsOnRoster(semesterID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.RosterMember{}).
		Where("semester_id = ? AND user_id = ?", semesterID, userID).
		Count(&count).Error
	return count > 0, err
}

// ListAvailableUsers lists non-admin users not yet on the semester's roster
func (r *GormRosterRepository) ListAvailableUsers(semesterID uint64) ([]models.User, error) {
	subQuery := r.db.Model(&models.RosterMember{}).
		Select("user_id").
		Where("semester_id = ?", semesterID)

	var users []models.User
	err := r.db.Preload("Team").
		Where("role <> ?", models.RoleAdmin).
		Where("id NOT IN (?)", subQuery).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
