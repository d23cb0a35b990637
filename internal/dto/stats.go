package dto

// OverviewStats summarizes the whole installation, or one semester when
// scoped.
type OverviewStats struct {
	TotalUsers     int64   `json:"total_users"`
	TotalSemesters int64   `json:"total_semesters"`
	TotalEvents    int64   `json:"total_events"`
	TotalTasks     int64   `json:"total_tasks"`
	TasksCompleted int64   `json:"tasks_completed"`
	TasksPending   int64   `json:"tasks_pending"`
	TasksCannotDo  int64   `json:"tasks_cannot_do"`
	CompletionRate float64 `json:"completion_rate"`
}

// UserStats is one member's completion record over individually assigned
// tasks.
type UserStats struct {
	UserID         uint64  `json:"user_id"`
	DisplayName    string  `json:"display_name"`
	TeamName       *string `json:"team_name"`
	TasksAssigned  int64   `json:"tasks_assigned"`
	TasksCompleted int64   `json:"tasks_completed"`
	TasksCannotDo  int64   `json:"tasks_cannot_do"`
	CompletionRate float64 `json:"completion_rate"`
}

// TeamStats is one team's completion record over team-assigned tasks.
type TeamStats struct {
	TeamID         uint64  `json:"team_id"`
	TeamName       string  `json:"team_name"`
	MemberCount    int64   `json:"member_count"`
	TasksAssigned  int64   `json:"tasks_assigned"`
	TasksCompleted int64   `json:"tasks_completed"`
	CompletionRate float64 `json:"completion_rate"`
}

// SemesterStats sizes one semester's schedule and its completion record.
type SemesterStats struct {
	SemesterID     uint64  `json:"semester_id"`
	SemesterName   string  `json:"semester_name"`
	WeeksCount     int64   `json:"weeks_count"`
	EventsCount    int64   `json:"events_count"`
	TasksCount     int64   `json:"tasks_count"`
	TasksCompleted int64   `json:"tasks_completed"`
	CompletionRate float64 `json:"completion_rate"`
}

// WeeklyActivity is the created/completed task volume of one week.
type WeeklyActivity struct {
	WeekNumber     int    `json:"week_number"`
	StartDate      string `json:"start_date"`
	TasksCreated   int64  `json:"tasks_created"`
	TasksCompleted int64  `json:"tasks_completed"`
}
