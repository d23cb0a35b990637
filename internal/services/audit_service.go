package services

import (
	"fmt"

	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"github.com/hamdaan-dev/taskboard-api/internal/repository"
	"go.uber.org/zap"
)

// AuditService appends entries to the audit log. Entries are append-only;
// nothing here mutates or deletes them.
type AuditService struct {
	auditRepo repository.AuditRepository
	logger    *zap.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(auditRepo repository.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// Log appends an audit entry. actorID is nil for system-initiated actions.
func (s *AuditService) Log(actorID *uint64, action, entityType string, entityID *uint64, entityName, details string) error {
	entry := &models.AuditLog{
		UserID:     actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    details,
	}

	if err := s.auditRepo.Append(entry); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// LogTaskAction appends a task-status audit entry. The state machine must
// never skip this on its success paths, so failures here surface to the
// caller.
func (s *AuditService) LogTaskAction(actorID uint64, action string, task *models.Task, details string) error {
	id := task.ID
	return s.Log(&actorID, action, "task", &id, task.Title, details)
}

// List returns audit entries, newest first
func (s *AuditService) List(filter repository.AuditFilter) ([]models.AuditLog, int64, error) {
	return s.auditRepo.List(filter)
}
