package repository

import (
	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

// Create creates a new event
func (r *GormEventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

// CreateWithTasks creates an event and its initial tasks in one transaction
func (r *GormEventRepository) CreateWithTasks(event *models.Event, tasks []models.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}

		if len(tasks) == 0 {
			return nil
		}
		for i := range tasks {
			tasks[i].EventID = event.ID
		}
		return tx.Create(&tasks).Error
	})
}

// FindByID finds an event by ID with optional preloading
func (r *GormEventRepository) FindByID(id uint64, preload ...string) (*models.Event, error) {
	var event models.Event
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&event, id).Error; err != nil {
		return nil, err
	}

	return &event, nil
}

// ListByWeek lists a week's events in chronological order
func (r *GormEventRepository) ListByWeek(weekID uint64) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Where("week_id = ?", weekID).
		Order("starts_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Update updates an event
func (r *GormEventRepository) Update(event *models.Event) error {
	return r.db.Save(event).Error
}

// Delete removes an event with its tasks in one transaction
func (r *GormEventRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteTasksOfEvents(tx, []uint64{id}); err != nil {
			return err
		}

		return tx.Delete(&models.Event{}, id).Error
	})
}
