package dto

// DashboardWeek is one week of the dashboard tree
type DashboardWeek struct {
	ID         uint64           `json:"id"`
	WeekNumber int              `json:"week_number"`
	StartDate  string           `json:"start_date"`
	EndDate    string           `json:"end_date"`
	IsCurrent  bool             `json:"is_current"`
	Events     []DashboardEvent `json:"events"`
}

// DashboardEvent is one event of the dashboard tree. PendingCount excludes
// SETUP tasks, which never require completion.
type DashboardEvent struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	StartsAt     string    `json:"starts_at"`
	Location     string    `json:"location,omitempty"`
	PendingCount int       `json:"pending_count"`
	Tasks        []TaskDTO `json:"tasks"`
}

// DashboardResponse is the active semester's full tree, filtered to what
// the viewer may see.
type DashboardResponse struct {
	SemesterID   *uint64         `json:"semester_id"`
	SemesterName *string         `json:"semester_name"`
	Weeks        []DashboardWeek `json:"weeks"`
	UserRole     string          `json:"user_role"`
}
