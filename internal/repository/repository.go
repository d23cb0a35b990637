package repository

import (
	"time"

	"github.com/hamdaan-dev/taskboard-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByEvent lists all tasks belonging to an event
	ListByEvent(eventID uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete deletes a task with its pool rows and comments
	Delete(id uint64) error

	// ReplacePool replaces the task's pool-assignment rows
	ReplacePool(taskID uint64, userIDs []uint64) error

	// PoolUserIDs returns the user IDs in the task's assignment pool
	PoolUserIDs(taskID uint64) ([]uint64, error)

	// PoolMembers returns the users in the task's assignment pool
	PoolMembers(taskID uint64) ([]models.User, error)

	// ClaimAutoReminder atomically flips auto_reminder_sent from false to
	// true. It reports whether this caller performed the transition; a
	// false result means another caller already claimed the reminder.
	ClaimAutoReminder(taskID uint64) (bool, error)

	// ReminderCandidates lists PENDING STANDARD tasks of active semesters
	// whose event starts within [from, to] and that have not been
	// auto-reminded, with Event preloaded.
	ReminderCandidates(from, to time.Time) ([]models.Task, error)

	// CountUsersByIDs counts how many of the given user IDs exist
	CountUsersByIDs(userIDs []uint64) (int64, error)
}

// CommentRepository defines the interface for task comment data access
type CommentRepository interface {
	Create(comment *models.TaskComment) error
	FindByID(id uint64) (*models.TaskComment, error)
	ListByTask(taskID uint64) ([]models.TaskComment, error)
	Delete(id uint64) error
}

// SemesterRepository defines the interface for semester data access
type SemesterRepository interface {
	// Create creates a new semester
	Create(semester *models.Semester) error

	// FindByID finds a semester by ID
	FindByID(id uint64) (*models.Semester, error)

	// FindActive returns the active semester, if any
	FindActive() (*models.Semester, error)

	// List lists all semesters, newest first
	List() ([]models.Semester, error)

	// Update updates a semester
	Update(semester *models.Semester) error

	// Activate marks the given semester active and every other semester
	// inactive in a single conditional statement, so no interleaving can
	// observe zero or two active semesters.
	Activate(id uint64) error

	// Delete removes a semester and its whole week/event/task subtree in
	// one transaction
	Delete(id uint64) error
}

// RosterRepository defines the interface for semester roster data access
type RosterRepository interface {
	Add(member *models.RosterMember) error
	Remove(semesterID, userID uint64) error
	Find(semesterID, userID uint64) (*models.RosterMember, error)
	ListBySemester(semesterID uint64) ([]models.RosterMember, error)
	IsOnRoster(semesterID, userID uint64) (bool, error)
	ListAvailableUsers(semesterID uint64) ([]models.User, error)
}

// WeekRepository defines the interface for week data access
type WeekRepository interface {
	Create(week *models.Week) error
	FindByID(id uint64) (*models.Week, error)
	ListBySemester(semesterID uint64) ([]models.Week, error)
	FindByNumber(semesterID uint64, weekNumber int) (*models.Week, error)
	Update(week *models.Week) error

	// Delete removes a week with its events and tasks in one transaction
	Delete(id uint64) error
}

// EventRepository defines the interface for event data access
type EventRepository interface {
	Create(event *models.Event) error

	// CreateWithTasks creates an event and its initial tasks in one
	// transaction
	CreateWithTasks(event *models.Event, tasks []models.Task) error
	FindByID(id uint64, preload ...string) (*models.Event, error)
	ListByWeek(weekID uint64) ([]models.Event, error)
	Update(event *models.Event) error

	// Delete removes an event with its tasks in one transaction
	Delete(id uint64) error
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	Create(team *models.Team) error
	FindByID(id uint64) (*models.Team, error)
	FindByName(name string) (*models.Team, error)
	List() ([]models.Team, error)
	ListMembers(teamID uint64) ([]models.User, error)
	Update(team *models.Team) error

	// Delete removes a team, nulling out the team reference on users and
	// tasks rather than cascading
	Delete(id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint64) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	List() ([]models.User, error)
	Update(user *models.User) error
	Delete(id uint64) error
}

// TaskTally is a per-status breakdown of a set of tasks
type TaskTally struct {
	Total    int64
	Done     int64
	Pending  int64
	CannotDo int64
}

// TaskTallyFilter narrows TallyTasks to one slice of the containment tree
// or to one assignment mechanism. SemesterID and WeekID are alternatives,
// not meant to be combined.
type TaskTallyFilter struct {
	SemesterID     *uint64
	WeekID         *uint64
	AssignedTo     *uint64
	AssignedTeamID *uint64
}

// StatsRepository defines aggregate counts for the reporting endpoints
type StatsRepository interface {
	CountUsers() (int64, error)
	CountSemesters() (int64, error)
	CountWeeks(semesterID uint64) (int64, error)

	// CountEvents counts events, optionally scoped to one semester
	CountEvents(semesterID *uint64) (int64, error)

	CountTeamMembers(teamID uint64) (int64, error)

	// TallyTasks breaks task counts down by status
	TallyTasks(filter TaskTallyFilter) (TaskTally, error)
}

// AuditFilter holds filtering options for listing audit entries
type AuditFilter struct {
	Action     string
	EntityType string
	UserID     *uint64
	Page       int
	PageSize   int
}

// AuditRepository defines the interface for the append-only audit log
type AuditRepository interface {
	// Append adds an entry. Entries are never updated or deleted.
	Append(entry *models.AuditLog) error

	// List lists entries newest first
	List(filter AuditFilter) ([]models.AuditLog, int64, error)
}
