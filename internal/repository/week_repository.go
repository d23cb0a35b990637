package repository

import (
	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// GormWeekRepository is a GORM implementation of WeekRepository
type GormWeekRepository struct {
	db *gorm.DB
}

// NewWeekRepository creates a new WeekRepository
func NewWeekRepository(db *gorm.DB) WeekRepository {
	return &GormWeekRepository{db: db}
}

// Create creates a new week
func (r *GormWeekRepository) Create(week *models.Week) error {
	return r.db.Create(week).Error
}

// FindByID finds a week by ID
func (r *GormWeekRepository) FindByID(id uint64) (*models.Week, error) {
	var week models.Week
	if err := r.db.First(&week, id).Error; err != nil {
		return nil, err
	}
	return &week, nil
}

// ListBySemester lists a semester's weeks in order
func (r *GormWeekRepository) ListBySemester(semesterID uint64) ([]models.Week, error) {
	var weeks []models.Week
	err := r.db.Where("semester_id = ?", semesterID).
		Order("week_number ASC").
		Find(&weeks).Error
	if err != nil {
		return nil, err
	}
	return weeks, nil
}

// FindByNumber finds a week by its number within a semester
func (r *GormWeekRepository) FindByNumber(semesterID uint64, weekNumber int) (*models.Week, error) {
	var week models.Week
	if err := r.db.Where("semester_id = ? AND week_number = ?", semesterID, weekNumber).
		First(&week).Error; err != nil {
		return nil, err
	}
	return &week, nil
}

// Update updates a week
func (r *GormWeekRepository) Update(week *models.Week) error {
	return r.db.Save(week).Error
}

// Delete removes a week with its events and tasks in one transaction
func (r *GormWeekRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var eventIDs []uint64
		if err := tx.Model(&models.Event{}).
			Where("week_id = ?", id).
			Pluck("id", &eventIDs).Error; err != nil {
			return err
		}

		if len(eventIDs) > 0 {
			if err := deleteTasksOfEvents(tx, eventIDs); err != nil {
				return err
			}

			if err := tx.Where("week_id = ?", id).Delete(&models.Event{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Week{}, id).Error
	})
}
