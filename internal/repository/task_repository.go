package repository

import (
	"time"

	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListByEvent lists all tasks belonging to an event
func (r *GormTaskRepository) ListByEvent(eventID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Preload("Assignee").
		Preload("AssignedTeam").
		Preload("Assignments").
		Preload("Assignments.User").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete deletes a task with its pool rows and comments
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.TaskComment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// ReplacePool replaces the task's pool-assignment rows
func (r *GormTaskRepository) ReplacePool(taskID uint64, userIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		if len(userIDs) == 0 {
			return nil
		}

		assignments := make([]models.TaskAssignment, len(userIDs))
		for i, userID := range userIDs {
			assignments[i] = models.TaskAssignment{
				TaskID: taskID,
				UserID: userID,
			}
		}

		return tx.
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&assignments).Error
	})
}

// PoolUserIDs returns the user IDs in the task's assignment pool
func (r *GormTaskRepository) PoolUserIDs(taskID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&models.TaskAssignment{}).
		Where("task_id = ?", taskID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// PoolMembers returns the users in the task's assignment pool
func (r *GormTaskRepository) PoolMembers(taskID uint64) ([]models.User, error) {
	var users []models.User
	err := r.db.Model(&models.User{}).
		Joins("JOIN task_assignments ON task_assignments.user_id = users.id").
		Where("task_assignments.task_id = ?", taskID).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ClaimAutoReminder flips auto_reminder_sent from false to true as one
// conditional write. Two concurrent claims for the same task resolve to
// exactly one true result.
func (r *GormTaskRepository) ClaimAutoReminder(taskID uint64) (bool, error) {
	result := r.db.Model(&models.Task{}).
		Where("id = ? AND auto_reminder_sent = ?", taskID, false).
		Update("auto_reminder_sent", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ReminderCandidates lists tasks eligible for an automatic reminder
func (r *GormTaskRepository) ReminderCandidates(from, to time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Preload("Event").
		Joins("JOIN events ON events.id = tasks.event_id").
		Joins("JOIN weeks ON weeks.id = events.week_id").
		Joins("JOIN semesters ON semesters.id = weeks.semester_id").
		Where("semesters.is_active = ?", true).
		Where("tasks.status = ?", models.TaskStatusPending).
		Where("tasks.task_type = ?", models.TaskTypeStandard).
		Where("tasks.auto_reminder_sent = ?", false).
		Where("events.starts_at BETWEEN ? AND ?", from, to).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// CountUsersByIDs counts how many of the given user IDs exist
func (r *GormTaskRepository) CountUsersByIDs(userIDs []uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("id IN ?", userIDs).
		Count(&count).Error
	return count, err
}
