package repository

import (
	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// GormSemesterRepository is a GORM implementation of SemesterRepository
type GormSemesterRepository struct {
	db *gorm.DB
}

// NewSemesterRepository creates a new SemesterRepository
func NewSemesterRepository(db *gorm.DB) SemesterRepository {
	return &GormSemesterRepository{db: db}
}

// Create creates a new semester
func (r *GormSemesterRepository) Create(semester *models.Semester) error {
	return r.db.Create(semester).Error
}

// FindByID finds a semester by ID
func (r *GormSemesterRepository) FindByID(id uint64) (*models.Semester, error) {
	var semester models.Semester
	if err := r.db.First(&semester, id).Error; err != nil {
		return nil, err
	}
	return &semester, nil
}

// FindActive returns the active semester, if any
func (r *GormSemesterRepository) FindActive() (*models.Semester, error) {
	var semester models.Semester
	if err := r.db.Where("is_active = ?", true).First(&semester).Error; err != nil {
		return nil, err
	}
	return &semester, nil
}

// List lists all semesters, newest first
func (r *GormSemesterRepository) List() ([]models.Semester, error) {
	var semesters []models.Semester
	if err := r.db.Order("start_date DESC").Find(&semesters).Error; err != nil {
		return nil, err
	}
	return semesters, nil
}

// Update updates a semester
func (r *GormSemesterRepository) Update(semester *models.Semester) error {
	return r.db.Save(semester).Error
}

// Activate sets is_active on exactly one semester. A single conditional
// UPDATE touches every row, so there is no window where zero or two
// semesters are active.
func (r *GormSemesterRepository) Activate(id uint64) error {
	return r.db.Exec("UPDATE semesters SET is_active = (id = ?)", id).Error
}

// Delete removes a semester and its whole subtree in one transaction.
// Partial failure rolls everything back.
func (r *GormSemesterRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var weekIDs []uint64
		if err := tx.Model(&models.Week{}).
			Where("semester_id = ?", id).
			Pluck("id", &weekIDs).Error; err != nil {
			return err
		}

		if len(weekIDs) > 0 {
			var eventIDs []uint64
			if err := tx.Model(&models.Event{}).
				Where("week_id IN ?", weekIDs).
				Pluck("id", &eventIDs).Error; err != nil {
				return err
			}

			if len(eventIDs) > 0 {
				if err := deleteTasksOfEvents(tx, eventIDs); err != nil {
					return err
				}

				if err := tx.Where("week_id IN ?", weekIDs).Delete(&models.Event{}).Error; err != nil {
					return err
				}
			}

			if err := tx.Where("semester_id = ?", id).Delete(&models.Week{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("semester_id = ?", id).Delete(&models.RosterMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Semester{}, id).Error
	})
}

// deleteTasksOfEvents removes all tasks under the given events together
// with their pool rows and comments. Shared by the cascading deletes of
// semesters, weeks, and events; must run inside the caller's transaction.
func deleteTasksOfEvents(tx *gorm.DB, eventIDs []uint64) error {
	var taskIDs []uint64
	if err := tx.Model(&models.Task{}).
		Where("event_id IN ?", eventIDs).
		Pluck("id", &taskIDs).Error; err != nil {
		return err
	}

	if len(taskIDs) == 0 {
		return nil
	}

	if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskAssignment{}).Error; err != nil {
		return err
	}

	if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskComment{}).Error; err != nil {
		return err
	}

	return tx.Where("event_id IN ?", eventIDs).Delete(&models.Task{}).Error
}
