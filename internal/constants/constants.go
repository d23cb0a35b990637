package constants

// Session and context keys
const (
	SessionCookieName = "taskboard_session"
	ContextKeyUserID  = "user_id"
	ContextKeyUser    = "current_user"
	ContextKeyTask    = "task"
)

// Validation limits
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
