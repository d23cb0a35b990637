package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task indexes for event listings and the reminder scan
		{"tasks", "idx_tasks_event_id", "event_id"},
		{"tasks", "idx_tasks_status", "status"},
		{"tasks", "idx_tasks_assigned_to", "assigned_to"},
		{"tasks", "idx_tasks_assigned_team_id", "assigned_team_id"},

		// Containment-tree traversal
		{"weeks", "idx_weeks_semester_id", "semester_id"},
		{"events", "idx_events_week_id", "week_id"},
		{"events", "idx_events_starts_at", "starts_at"},

		// Join rows
		{"roster_members", "idx_roster_members_semester_id", "semester_id"},
		{"roster_members", "idx_roster_members_user_id", "user_id"},
		{"task_assignments", "idx_task_assignments_task_id", "task_id"},
		{"task_assignments", "idx_task_assignments_user_id", "user_id"},

		// Audit listing is newest-first
		{"audit_logs", "idx_audit_logs_created_at", "created_at"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM information_schema.statistics
			WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
