package repository

import (
	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// GormStatsRepository is a GORM implementation of StatsRepository
type GormStatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &GormStatsRepository{db: db}
}

// CountUsers counts all user accounts
func (r *GormStatsRepository) CountUsers() (int64, error) {
	var n int64
	err := r.db.Model(&models.User{}).Count(&n).Error
	return n, err
}

// CountSemesters counts all semesters
func (r *GormStatsRepository) CountSemesters() (int64, error) {
	var n int64
	err := r.db.Model(&models.Semester{}).Count(&n).Error
	return n, err
}

// CountWeeks counts a semester's weeks
func (r *GormStatsRepository) CountWeeks(semesterID uint64) (int64, error) {
	var n int64
	err := r.db.Model(&models.Week{}).
		Where("semester_id = ?", semesterID).
		Count(&n).Error
	return n, err
}

// CountEvents counts events, optionally scoped to one semester
func (r *GormStatsRepository) CountEvents(semesterID *uint64) (int64, error) {
	query := r.db.Model(&models.Event{})
	if semesterID != nil {
		query = query.
			Joins("JOIN weeks ON weeks.id = events.week_id").
			Where("weeks.semester_id = ?", *semesterID)
	}

	var n int64
	err := query.Count(&n).Error
	return n, err
}

// CountTeamMembers counts users belonging to a team
func (r *GormStatsRepository) CountTeamMembers(teamID uint64) (int64, error) {
	var n int64
	err := r.db.Model(&models.User{}).
		Where("team_id = ?", teamID).
		Count(&n).Error
	return n, err
}

// TallyTasks breaks task counts down by status with one grouped query
func (r *GormStatsRepository) TallyTasks(filter TaskTallyFilter) (TaskTally, error) {
	query := r.db.Model(&models.Task{})

	if filter.SemesterID != nil {
		query = query.
			Joins("JOIN events ON events.id = tasks.event_id").
			Joins("JOIN weeks ON weeks.id = events.week_id").
			Where("weeks.semester_id = ?", *filter.SemesterID)
	}
	if filter.WeekID != nil {
		query = query.
			Joins("JOIN events ON events.id = tasks.event_id").
			Where("events.week_id = ?", *filter.WeekID)
	}
	if filter.AssignedTo != nil {
		query = query.Where("tasks.assigned_to = ?", *filter.AssignedTo)
	}
	if filter.AssignedTeamID != nil {
		query = query.Where("tasks.assigned_team_id = ?", *filter.AssignedTeamID)
	}

	var rows []struct {
		Status models.TaskStatus
		N      int64
	}
	err := query.
		Select("tasks.status AS status, COUNT(*) AS n").
		Group("tasks.status").
		Scan(&rows).Error
	if err != nil {
		return TaskTally{}, err
	}

	var tally TaskTally
	for _, row := range rows {
		tally.Total += row.N
		switch row.Status {
		case models.TaskStatusDone:
			tally.Done = row.N
		case models.TaskStatusPending:
			tally.Pending = row.N
		case models.TaskStatusCannotDo:
			tally.CannotDo = row.N
		}
	}
	return tally, nil
}
