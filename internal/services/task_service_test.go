package services

import (
	"context"
	"sync"
	"testing"

	"github.com/hamdaan-dev/taskboard-api/internal/database"
	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"github.com/hamdaan-dev/taskboard-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeNotifier records every message instead of talking to Discord.
type fakeNotifier struct {
	mu        sync.Mutex
	reminders []string
	alerts    []string
	fail      bool
}

func (f *fakeNotifier) SendReminder(_ context.Context, discordID, taskTitle, eventName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return assert.AnError
	}
	f.reminders = append(f.reminders, discordID+"|"+taskTitle+"|"+eventName)
	return nil
}

func (f *fakeNotifier) SendCannotDoAlert(_ context.Context, actorName, taskTitle, eventName, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return assert.AnError
	}
	f.alerts = append(f.alerts, actorName+"|"+taskTitle+"|"+eventName+"|"+reason)
	return nil
}

func (f *fakeNotifier) reminderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reminders)
}

// TaskServiceTestSuite defines the test suite for TaskService
type TaskServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	notifier *fakeNotifier
	service  *TaskService
	taskRepo repository.TaskRepository
	audit    *AuditService

	semester models.Semester
	week     models.Week
	event    models.Event
}

func (suite *TaskServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Semester{},
		&models.RosterMember{},
		&models.Week{},
		&models.Event{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.TaskComment{},
		&models.AuditLog{},
	)
	suite.Require().NoError(err)
	database.SetDB(suite.db)

	suite.taskRepo = repository.NewTaskRepository(suite.db)
	eventRepo := repository.NewEventRepository(suite.db)
	teamRepo := repository.NewTeamRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	auditRepo := repository.NewAuditRepository(suite.db)

	logger := zap.NewNop()
	suite.notifier = &fakeNotifier{}
	suite.audit = NewAuditService(auditRepo, logger)
	resolver := NewAssignmentResolver(suite.taskRepo, teamRepo, userRepo)
	suite.service = NewTaskService(suite.taskRepo, eventRepo, teamRepo, userRepo, resolver, suite.audit, suite.notifier, logger)

	suite.seedSchedule()
}

func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskServiceTestSuite) seedSchedule() {
	suite.semester = models.Semester{Name: "Fall 2026", IsActive: true}
	suite.Require().NoError(suite.db.Create(&suite.semester).Error)

	suite.week = models.Week{SemesterID: suite.semester.ID, WeekNumber: 1}
	suite.Require().NoError(suite.db.Create(&suite.week).Error)

	suite.event = models.Event{WeekID: suite.week.ID, Name: "Friday Gathering"}
	suite.Require().NoError(suite.db.Create(&suite.event).Error)
}

func (suite *TaskServiceTestSuite) createUser(username string, role models.Role, teamID *uint64) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "x",
		DisplayName:  username,
		DiscordID:    "d-" + username,
		Role:         role,
		TeamID:       teamID,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *TaskServiceTestSuite) createTask(title string, assignedTo *uint64) *models.Task {
	task := &models.Task{
		EventID:    suite.event.ID,
		Title:      title,
		TaskType:   models.TaskTypeStandard,
		Status:     models.TaskStatusPending,
		AssignedTo: assignedTo,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

func (suite *TaskServiceTestSuite) auditEntries(action string) []models.AuditLog {
	var entries []models.AuditLog
	suite.Require().NoError(suite.db.Where("action = ?", action).Find(&entries).Error)
	return entries
}

func (suite *TaskServiceTestSuite) TestMarkDone_Success() {
	member := suite.createUser("huda", models.RoleMember, nil)
	task := suite.createTask("Bring snacks", &member.ID)

	updated, err := suite.service.MarkDone(context.Background(), task.ID, member)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), models.TaskStatusDone, updated.Status)
	suite.Require().NotNil(updated.CompletedBy)
	assert.Equal(suite.T(), member.ID, *updated.CompletedBy)

	entries := suite.auditEntries(models.AuditActionTaskDone)
	suite.Require().Len(entries, 1)
	assert.Equal(suite.T(), "task", entries[0].EntityType)
	suite.Require().NotNil(entries[0].UserID)
	assert.Equal(suite.T(), member.ID, *entries[0].UserID)
}

func (suite *TaskServiceTestSuite) TestMarkDone_NotAssigned() {
	assignee := suite.createUser("huda", models.RoleMember, nil)
	outsider := suite.createUser("omar", models.RoleMember, nil)
	task := suite.createTask("Bring snacks", &assignee.ID)

	_, err := suite.service.MarkDone(context.Background(), task.ID, outsider)
	assert.ErrorIs(suite.T(), err, ErrNotAuthorized)

	// Nothing changed, nothing audited
	var stored models.Task
	suite.db.First(&stored, task.ID)
	assert.Equal(suite.T(), models.TaskStatusPending, stored.Status)
	assert.Empty(suite.T(), suite.auditEntries(models.AuditActionTaskDone))
}

func (suite *TaskServiceTestSuite) TestMarkDone_AdminBypassesAssignment() {
	assignee := suite.createUser("huda", models.RoleMember, nil)
	admin := suite.createUser("root", models.RoleAdmin, nil)
	task := suite.createTask("Bring snacks", &assignee.ID)

	updated, err := suite.service.MarkDone(context.Background(), task.ID, admin)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusDone, updated.Status)
	assert.Equal(suite.T(), admin.ID, *updated.CompletedBy)
}

func (suite *TaskServiceTestSuite) TestMarkDone_InvalidFromDone() {
	member := suite.createUser("huda", models.RoleMember, nil)
	task := suite.createTask("Bring snacks", &member.ID)

	_, err := suite.service.MarkDone(context.Background(), task.ID, member)
	suite.Require().NoError(err)

	_, err = suite.service.MarkDone(context.Background(), task.ID, member)
	assert.ErrorIs(suite.T(), err, ErrInvalidStateTransition)
}

func (suite *TaskServiceTestSuite) TestMarkCannotDo_RequiresReason() {
	member := suite.createUser("huda", models.RoleMember, nil)
	task := suite.createTask("Bring snacks", &member.ID)

	_, err := suite.service.MarkCannotDo(context.Background(), task.ID, member, "   ")
	assert.ErrorIs(suite.T(), err, ErrReasonRequired)

	var stored models.Task
	suite.db.First(&stored, task.ID)
	assert.Equal(suite.T(), models.TaskStatusPending, stored.Status)
	assert.Empty(suite.T(), suite.notifier.alerts)
}

func (suite *TaskServiceTestSuite) TestMarkCannotDo_SendsAlert() {
	member := suite.createUser("huda", models.RoleMember, nil)
	task := suite.createTask("Bring snacks", &member.ID)

	updated, err := suite.service.MarkCannotDo(context.Background(), task.ID, member, "out of town")
	suite.Require().NoError(err)

	assert.Equal(suite.T(), models.TaskStatusCannotDo, updated.Status)
	assert.Equal(suite.T(), "out of town", updated.CannotDoReason)

	suite.Require().Len(suite.notifier.alerts, 1)
	assert.Equal(suite.T(), "huda|Bring snacks|Friday Gathering|out of town", suite.notifier.alerts[0])

	entries := suite.auditEntries(models.AuditActionTaskCannotDo)
	suite.Require().Len(entries, 1)
	assert.Equal(suite.T(), "out of town", entries[0].Details)
}

// A failed alert is logged, never propagated into the transition.
func (suite *TaskServiceTestSuite) TestMarkCannotDo_AlertFailureDoesNotRollBack() {
	member := suite.createUser("huda", models.RoleMember, nil)
	task := suite.createTask("Bring snacks", &member.ID)
	suite.notifier.fail = true

	updated, err := suite.service.MarkCannotDo(context.Background(), task.ID, member, "out of town")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusCannotDo, updated.Status)
}

func (suite *TaskServiceTestSuite) TestUndoStatus() {
	member := suite.createUser("huda", models.RoleMember, nil)
	task := suite.createTask("Bring snacks", &member.ID)

	// Undo from PENDING is invalid
	_, err := suite.service.UndoStatus(task.ID, member)
	assert.ErrorIs(suite.T(), err, ErrInvalidStateTransition)

	_, err = suite.service.MarkCannotDo(context.Background(), task.ID, member, "out of town")
	suite.Require().NoError(err)

	updated, err := suite.service.UndoStatus(task.ID, member)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusPending, updated.Status)
	assert.Nil(suite.T(), updated.CompletedBy)
	assert.Empty(suite.T(), updated.CannotDoReason)

	suite.Require().Len(suite.auditEntries(models.AuditActionTaskUndo), 1)
}

// Completing, reassigning, and completing again is the full round trip:
// reassignment voids the first completion and the new assignee completes
// from a clean PENDING state.
func (suite *TaskServiceTestSuite) TestReassign_VoidsCompletion() {
	first := suite.createUser("huda", models.RoleMember, nil)
	second := suite.createUser("omar", models.RoleMember, nil)
	admin := suite.createUser("root", models.RoleAdmin, nil)
	task := suite.createTask("Bring snacks", &first.ID)

	// Mark the flag as if an auto reminder already went out
	suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Update("auto_reminder_sent", true)

	_, err := suite.service.MarkDone(context.Background(), task.ID, first)
	suite.Require().NoError(err)

	updated, err := suite.service.Reassign(admin, task.ID, ReassignInput{AssignedTo: &second.ID})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), models.TaskStatusPending, updated.Status)
	assert.Nil(suite.T(), updated.CompletedBy)
	assert.Empty(suite.T(), updated.CannotDoReason)
	assert.False(suite.T(), updated.AutoReminderSent)
	suite.Require().NotNil(updated.AssignedTo)
	assert.Equal(suite.T(), second.ID, *updated.AssignedTo)

	// The first assignee can no longer act
	_, err = suite.service.MarkDone(context.Background(), task.ID, first)
	assert.ErrorIs(suite.T(), err, ErrNotAuthorized)

	done, err := suite.service.MarkDone(context.Background(), task.ID, second)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), second.ID, *done.CompletedBy)
}

func (suite *TaskServiceTestSuite) TestReassign_OneMechanismWins() {
	member := suite.createUser("huda", models.RoleMember, nil)
	admin := suite.createUser("root", models.RoleAdmin, nil)
	team := models.Team{Name: "Logistics"}
	suite.Require().NoError(suite.db.Create(&team).Error)
	task := suite.createTask("Set up chairs", nil)

	// Pool first
	_, err := suite.service.Reassign(admin, task.ID, ReassignInput{PoolUserIDs: []uint64{member.ID, admin.ID}})
	suite.Require().NoError(err)
	poolIDs, err := suite.taskRepo.PoolUserIDs(task.ID)
	suite.Require().NoError(err)
	assert.Len(suite.T(), poolIDs, 2)

	// Switching to a team clears the pool
	updated, err := suite.service.Reassign(admin, task.ID, ReassignInput{AssignedTeamID: &team.ID})
	suite.Require().NoError(err)
	assert.Nil(suite.T(), updated.AssignedTo)
	suite.Require().NotNil(updated.AssignedTeamID)
	poolIDs, err = suite.taskRepo.PoolUserIDs(task.ID)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), poolIDs)

	// Switching to an individual clears the team
	updated, err = suite.service.Reassign(admin, task.ID, ReassignInput{AssignedTo: &member.ID})
	suite.Require().NoError(err)
	assert.Nil(suite.T(), updated.AssignedTeamID)
	assert.Equal(suite.T(), member.ID, *updated.AssignedTo)
}

func (suite *TaskServiceTestSuite) TestReassign_MemberForbidden() {
	member := suite.createUser("huda", models.RoleMember, nil)
	task := suite.createTask("Bring snacks", &member.ID)

	_, err := suite.service.Reassign(member, task.ID, ReassignInput{AssignedTo: &member.ID})
	assert.ErrorIs(suite.T(), err, ErrAdminOnly)
}

func (suite *TaskServiceTestSuite) TestReassign_UnknownAssignee() {
	admin := suite.createUser("root", models.RoleAdmin, nil)
	task := suite.createTask("Bring snacks", nil)
	ghost := uint64(9999)

	_, err := suite.service.Reassign(admin, task.ID, ReassignInput{AssignedTo: &ghost})
	assert.ErrorIs(suite.T(), err, ErrInvalidAssignee)
}

func (suite *TaskServiceTestSuite) TestListByEvent_Visibility() {
	teamed := suite.createUser("huda", models.RoleMember, nil)
	team := models.Team{Name: "Logistics"}
	suite.Require().NoError(suite.db.Create(&team).Error)
	suite.Require().NoError(suite.db.Model(teamed).Update("team_id", team.ID).Error)
	teamed.TeamID = &team.ID

	loner := suite.createUser("omar", models.RoleMember, nil)
	admin := suite.createUser("root", models.RoleAdmin, nil)

	mine := suite.createTask("Mine", &loner.ID)
	teamTask := suite.createTask("Team task", nil)
	suite.Require().NoError(suite.db.Model(&models.Task{}).Where("id = ?", teamTask.ID).Update("assigned_team_id", team.ID).Error)
	suite.createTask("Unrelated", nil)

	adminView, err := suite.service.ListByEvent(suite.event.ID, admin)
	suite.Require().NoError(err)
	assert.Len(suite.T(), adminView, 3)

	lonerView, err := suite.service.ListByEvent(suite.event.ID, loner)
	suite.Require().NoError(err)
	suite.Require().Len(lonerView, 1)
	assert.Equal(suite.T(), mine.ID, lonerView[0].ID)

	teamedView, err := suite.service.ListByEvent(suite.event.ID, teamed)
	suite.Require().NoError(err)
	suite.Require().Len(teamedView, 1)
	assert.Equal(suite.T(), teamTask.ID, teamedView[0].ID)
}

func (suite *TaskServiceTestSuite) TestCreateTask_AdminOnly() {
	member := suite.createUser("huda", models.RoleMember, nil)

	_, err := suite.service.CreateTask(member, CreateTaskInput{
		EventID: suite.event.ID,
		Title:   "Bring snacks",
	})
	assert.ErrorIs(suite.T(), err, ErrAdminOnly)
}

func (suite *TaskServiceTestSuite) TestCreateTask_WithPool() {
	admin := suite.createUser("root", models.RoleAdmin, nil)
	a := suite.createUser("huda", models.RoleMember, nil)
	b := suite.createUser("omar", models.RoleMember, nil)

	task, err := suite.service.CreateTask(admin, CreateTaskInput{
		EventID:     suite.event.ID,
		Title:       "Greeting rotation",
		PoolUserIDs: []uint64{a.ID, b.ID, a.ID},
	})
	suite.Require().NoError(err)

	poolIDs, err := suite.taskRepo.PoolUserIDs(task.ID)
	suite.Require().NoError(err)
	assert.Len(suite.T(), poolIDs, 2)

	suite.Require().Len(suite.auditEntries(models.AuditActionCreate), 1)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
