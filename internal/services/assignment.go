package services

import (
	"fmt"

	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"github.com/hamdaan-dev/taskboard-api/internal/repository"
)

// AssignmentKind identifies which of the three assignment mechanisms a task
// uses. Storage keeps three nullable fields; this type removes the "which
// ones are actually populated" ambiguity everywhere above the storage
// boundary.
type AssignmentKind int

const (
	AssignmentUnassigned AssignmentKind = iota
	AssignmentIndividual
	AssignmentTeam
	AssignmentPool
)

// Assignment is the resolved assignment of a task.
type Assignment struct {
	Kind        AssignmentKind
	UserID      uint64
	TeamID      uint64
	PoolUserIDs []uint64
}

// AssignmentOf builds the Assignment value for a task. Pool IDs come from
// the task's join rows. When more than one mechanism is populated the
// individual field wins, matching the precedence used for display.
func AssignmentOf(task *models.Task, poolIDs []uint64) Assignment {
	switch {
	case task.AssignedTo != nil:
		return Assignment{Kind: AssignmentIndividual, UserID: *task.AssignedTo}
	case task.AssignedTeamID != nil:
		return Assignment{Kind: AssignmentTeam, TeamID: *task.AssignedTeamID}
	case len(poolIDs) > 0:
		return Assignment{Kind: AssignmentPool, PoolUserIDs: poolIDs}
	default:
		return Assignment{Kind: AssignmentUnassigned}
	}
}

// CanAct reports whether a user may act on a task. True iff the user is an
// administrator, is the individual assignee, shares the assigned team, or
// appears in the assignment pool. Callers must re-evaluate on every attempt;
// team and pool membership change between requests.
func CanAct(task *models.Task, user *models.User, poolIDs []uint64) bool {
	if user.IsAdmin() {
		return true
	}
	if task.AssignedTo != nil && *task.AssignedTo == user.ID {
		return true
	}
	if task.AssignedTeamID != nil && user.TeamID != nil && *user.TeamID == *task.AssignedTeamID {
		return true
	}
	for _, id := range poolIDs {
		if id == user.ID {
			return true
		}
	}
	return false
}

// AssignmentSummary is the human-readable description of who is responsible
// for a task.
type AssignmentSummary struct {
	Label     string        `json:"label"`
	Assignees []models.User `json:"assignees"`
}

// DescribeAssignment resolves the assignee list and summary label for a
// task. The list is the union of users resolved through every populated
// mechanism, deduplicated by user ID in resolution order: individual, then
// team members, then pool members. A dangling team reference contributes
// nothing; pool members stay listed even when off the roster.
func DescribeAssignment(task *models.Task, assignee *models.User, team *models.Team, teamMembers []models.User, poolMembers []models.User) AssignmentSummary {
	seen := make(map[uint64]struct{})
	var assignees []models.User

	add := func(u models.User) {
		if _, ok := seen[u.ID]; ok {
			return
		}
		seen[u.ID] = struct{}{}
		assignees = append(assignees, u)
	}

	if task.AssignedTo != nil && assignee != nil {
		add(*assignee)
	}
	if task.AssignedTeamID != nil {
		for _, u := range teamMembers {
			add(u)
		}
	}
	for _, u := range poolMembers {
		add(u)
	}

	label := "Unassigned"
	switch {
	case len(assignees) == 0:
	case task.AssignedTo != nil && assignee != nil && task.AssignedTeamID == nil && len(poolMembers) == 0:
		label = assignee.DisplayName
	case task.AssignedTeamID != nil && team != nil && task.AssignedTo == nil && len(poolMembers) == 0:
		label = team.Name
	case len(assignees) == 1:
		label = assignees[0].DisplayName
	default:
		label = fmt.Sprintf("%d people", len(assignees))
	}

	return AssignmentSummary{Label: label, Assignees: assignees}
}

// AssignmentResolver loads assignment context from storage and applies the
// pure resolution rules above.
type AssignmentResolver struct {
	taskRepo repository.TaskRepository
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

// NewAssignmentResolver creates a new AssignmentResolver
func NewAssignmentResolver(taskRepo repository.TaskRepository, teamRepo repository.TeamRepository, userRepo repository.UserRepository) *AssignmentResolver {
	return &AssignmentResolver{
		taskRepo: taskRepo,
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

// CanAct loads the task's pool and evaluates the permission check for one
// user.
func (r *AssignmentResolver) CanAct(task *models.Task, user *models.User) (bool, error) {
	poolIDs, err := r.taskRepo.PoolUserIDs(task.ID)
	if err != nil {
		return false, fmt.Errorf("failed to load assignment pool: %w", err)
	}
	return CanAct(task, user, poolIDs), nil
}

// Describe loads every resolvable assignee for the task and returns the
// summary.
func (r *AssignmentResolver) Describe(task *models.Task) (AssignmentSummary, error) {
	var assignee *models.User
	if task.AssignedTo != nil {
		u, err := r.userRepo.FindByID(*task.AssignedTo)
		if err == nil {
			assignee = u
		}
	}

	var team *models.Team
	var teamMembers []models.User
	if task.AssignedTeamID != nil {
		// A deleted team resolves to nothing rather than an error.
		t, err := r.teamRepo.FindByID(*task.AssignedTeamID)
		if err == nil {
			team = t
			teamMembers, err = r.teamRepo.ListMembers(t.ID)
			if err != nil {
				return AssignmentSummary{}, fmt.Errorf("failed to load team members: %w", err)
			}
		}
	}

	poolMembers, err := r.taskRepo.PoolMembers(task.ID)
	if err != nil {
		return AssignmentSummary{}, fmt.Errorf("failed to load pool members: %w", err)
	}

	return DescribeAssignment(task, assignee, team, teamMembers, poolMembers), nil
}

// Recipients returns every user the task resolves to, deduplicated. Used by
// the notification paths, which need users rather than a label.
func (r *AssignmentResolver) Recipients(task *models.Task) ([]models.User, error) {
	summary, err := r.Describe(task)
	if err != nil {
		return nil, err
	}
	return summary.Assignees, nil
}
