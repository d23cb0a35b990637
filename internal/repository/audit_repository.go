package repository

import (
	"github.com/hamdaan-dev/taskboard-api/internal/database"
	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"github.com/hamdaan-dev/taskboard-api/internal/utils"
	"gorm.io/gorm"
)

// GormAuditRepository is a GORM implementation of AuditRepository
type GormAuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &GormAuditRepository{db: db}
}

// Append adds an audit entry
func (r *GormAuditRepository) Append(entry *models.AuditLog) error {
	return r.db.Create(entry).Error
}

// List lists audit entries, newest first
func (r *GormAuditRepository) List(filter AuditFilter) ([]models.AuditLog, int64, error) {
	query := r.db.Model(&models.AuditLog{})

	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC").Preload("User")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Offset: (filter.Page - 1) * filter.PageSize,
			Limit:  filter.PageSize,
		}))
	}

	var entries []models.AuditLog
	if err := listQuery.Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
