package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hamdaan-dev/taskboard-api/internal/constants"
	"github.com/hamdaan-dev/taskboard-api/internal/database"
	"github.com/hamdaan-dev/taskboard-api/internal/dto"
	"github.com/hamdaan-dev/taskboard-api/internal/middleware"
	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"github.com/hamdaan-dev/taskboard-api/internal/repository"
	"github.com/hamdaan-dev/taskboard-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// nullNotifier drops every message; handler tests assert HTTP behavior, not
// webhook delivery.
type nullNotifier struct{}

func (nullNotifier) SendReminder(context.Context, string, string, string) error { return nil }
func (nullNotifier) SendCannotDoAlert(context.Context, string, string, string, string) error {
	return nil
}

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
	router  *gin.Engine

	// the user the next request runs as
	actor *models.User

	event models.Event
}

func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Semester{},
		&models.Week{},
		&models.Event{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.AuditLog{},
	)
	suite.Require().NoError(err)
	database.SetDB(suite.db)

	taskRepo := repository.NewTaskRepository(suite.db)
	eventRepo := repository.NewEventRepository(suite.db)
	teamRepo := repository.NewTeamRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	auditRepo := repository.NewAuditRepository(suite.db)

	logger := zap.NewNop()
	audit := services.NewAuditService(auditRepo, logger)
	resolver := services.NewAssignmentResolver(taskRepo, teamRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, eventRepo, teamRepo, userRepo, resolver, audit, nullNotifier{}, logger)
	reminderService := services.NewReminderService(taskRepo, eventRepo, resolver, nullNotifier{}, logger, 0)
	suite.handler = NewTaskHandler(taskService, reminderService)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(func(c *gin.Context) {
		if suite.actor != nil {
			c.Set(constants.ContextKeyUserID, suite.actor.ID)
			c.Set(constants.ContextKeyUser, suite.actor)
		}
		c.Next()
	})

	suite.router.GET("/api/events/:id/tasks", suite.handler.ListEventTasks)
	suite.router.POST("/api/events/:id/tasks", middleware.RequireAdmin(), suite.handler.CreateTask)
	suite.router.GET("/api/tasks/:id", suite.handler.GetTask)
	suite.router.POST("/api/tasks/:id/done", suite.handler.MarkDone)
	suite.router.POST("/api/tasks/:id/cannot-do", suite.handler.MarkCannotDo)
	suite.router.POST("/api/tasks/:id/undo", suite.handler.UndoStatus)
	suite.router.POST("/api/tasks/:id/reassign", middleware.RequireAdmin(), suite.handler.Reassign)

	semester := models.Semester{Name: "Fall 2026", IsActive: true}
	suite.Require().NoError(suite.db.Create(&semester).Error)
	week := models.Week{SemesterID: semester.ID, WeekNumber: 1}
	suite.Require().NoError(suite.db.Create(&week).Error)
	suite.event = models.Event{WeekID: week.ID, Name: "Friday Gathering"}
	suite.Require().NoError(suite.db.Create(&suite.event).Error)
}

func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) createUser(username string, role models.Role) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "x",
		DisplayName:  username,
		Role:         role,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *TaskHandlerTestSuite) createTask(title string, assignedTo *uint64) *models.Task {
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

func (suite *TaskHandlerTestSuite) do(method, url string, payload any) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TaskHandlerTestSuite) TestMarkDone() {
	member := suite.createUser("huda", models.RoleMember)
	task := suite.createTask("Bring snacks", &member.ID)
	suite.actor = member

	w := suite.do(http.MethodPost, "/api/tasks/1/done", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), models.TaskStatusDone, response.Status)
	suite.Require().NotNil(response.CompletedBy)
	assert.Equal(suite.T(), member.ID, *response.CompletedBy)
	assert.Equal(suite.T(), task.ID, response.ID)
}

func (suite *TaskHandlerTestSuite) TestMarkDone_NotAssigned() {
	assignee := suite.createUser("huda", models.RoleMember)
	outsider := suite.createUser("omar", models.RoleMember)
	suite.createTask("Bring snacks", &assignee.ID)
	suite.actor = outsider

	w := suite.do(http.MethodPost, "/api/tasks/1/done", nil)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestMarkDone_AlreadyDone() {
	member := suite.createUser("huda", models.RoleMember)
	suite.createTask("Bring snacks", &member.ID)
	suite.actor = member

	suite.Require().Equal(http.StatusOK, suite.do(http.MethodPost, "/api/tasks/1/done", nil).Code)

	w := suite.do(http.MethodPost, "/api/tasks/1/done", nil)
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

func (suite *TaskHandlerTestSuite) TestMarkCannotDo_EmptyReason() {
	member := suite.createUser("huda", models.RoleMember)
	suite.createTask("Bring snacks", &member.ID)
	suite.actor = member

	w := suite.do(http.MethodPost, "/api/tasks/1/cannot-do", map[string]string{"reason": "  "})
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCannotDoThenUndo() {
	member := suite.createUser("huda", models.RoleMember)
	suite.createTask("Bring snacks", &member.ID)
	suite.actor = member

	w := suite.do(http.MethodPost, "/api/tasks/1/cannot-do", map[string]string{"reason": "out of town"})
	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), models.TaskStatusCannotDo, response.Status)
	assert.Equal(suite.T(), "out of town", response.CannotDoReason)

	w = suite.do(http.MethodPost, "/api/tasks/1/undo", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var undone dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &undone))
	assert.Equal(suite.T(), models.TaskStatusPending, undone.Status)
	assert.Nil(suite.T(), undone.CompletedBy)
	assert.Empty(suite.T(), undone.CannotDoReason)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_RequiresAdmin() {
	member := suite.createUser("huda", models.RoleMember)
	suite.actor = member

	w := suite.do(http.MethodPost, "/api/events/1/tasks", map[string]any{"title": "Bring snacks"})
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_WithAssignment() {
	admin := suite.createUser("root", models.RoleAdmin)
	member := suite.createUser("huda", models.RoleMember)
	suite.actor = admin

	w := suite.do(http.MethodPost, "/api/events/1/tasks", map[string]any{
		"title":       "Bring snacks",
		"assigned_to": member.ID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "huda", response.AssigneeLabel)
	suite.Require().Len(response.Assignees, 1)
	assert.Equal(suite.T(), member.ID, response.Assignees[0].ID)
}

func (suite *TaskHandlerTestSuite) TestReassign_ResetsStatus() {
	admin := suite.createUser("root", models.RoleAdmin)
	first := suite.createUser("huda", models.RoleMember)
	second := suite.createUser("omar", models.RoleMember)
	suite.createTask("Bring snacks", &first.ID)

	suite.actor = first
	suite.Require().Equal(http.StatusOK, suite.do(http.MethodPost, "/api/tasks/1/done", nil).Code)

	suite.actor = admin
	w := suite.do(http.MethodPost, "/api/tasks/1/reassign", map[string]any{"assigned_to": second.ID})
	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), models.TaskStatusPending, response.Status)
	assert.Nil(suite.T(), response.CompletedBy)
	assert.Equal(suite.T(), "omar", response.AssigneeLabel)
}

func (suite *TaskHandlerTestSuite) TestListEventTasks_FiltersForMembers() {
	admin := suite.createUser("root", models.RoleAdmin)
	member := suite.createUser("huda", models.RoleMember)
	suite.createTask("Mine", &member.ID)
	suite.createTask("Someone else's", nil)

	suite.actor = member
	w := suite.do(http.MethodGet, "/api/events/1/tasks", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var memberView []dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &memberView))
	suite.Require().Len(memberView, 1)
	assert.Equal(suite.T(), "Mine", memberView[0].Title)

	suite.actor = admin
	w = suite.do(http.MethodGet, "/api/events/1/tasks", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var adminView []dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &adminView))
	assert.Len(suite.T(), adminView, 2)
}

func (suite *TaskHandlerTestSuite) TestGetTask_NotFound() {
	suite.actor = suite.createUser("huda", models.RoleMember)

	w := suite.do(http.MethodGet, "/api/tasks/999", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
