package services

import (
	"testing"
	"time"

	"github.com/hamdaan-dev/taskboard-api/internal/database"
	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"github.com/hamdaan-dev/taskboard-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DashboardServiceTestSuite defines the test suite for DashboardService
type DashboardServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *DashboardService
	admin   *models.User
}

func (suite *DashboardServiceTestSuite) SetupTest() {
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
	)
	suite.Require().NoError(err)
	database.SetDB(suite.db)

	taskRepo := repository.NewTaskRepository(suite.db)
	resolver := NewAssignmentResolver(taskRepo, repository.NewTeamRepository(suite.db), repository.NewUserRepository(suite.db))
	suite.service = NewDashboardService(
		repository.NewSemesterRepository(suite.db),
		repository.NewWeekRepository(suite.db),
		repository.NewEventRepository(suite.db),
		taskRepo,
		resolver,
	)

	suite.admin = &models.User{Username: "root", PasswordHash: "x", DisplayName: "root", Role: models.RoleAdmin}
	suite.Require().NoError(suite.db.Create(suite.admin).Error)
}

func (suite *DashboardServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *DashboardServiceTestSuite) seedSemester(active bool) (*models.Semester, *models.Week, *models.Event) {
	semester := &models.Semester{
		Name:      "Spring 2026",
		StartDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC),
		IsActive:  active,
	}
	suite.Require().NoError(suite.db.Create(semester).Error)

	week := &models.Week{
		SemesterID: semester.ID,
		WeekNumber: 1,
		StartDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
	}
	suite.Require().NoError(suite.db.Create(week).Error)

	event := &models.Event{WeekID: week.ID, Name: "Friday Gathering", StartsAt: time.Date(2026, 3, 6, 18, 0, 0, 0, time.UTC)}
	suite.Require().NoError(suite.db.Create(event).Error)
	return semester, week, event
}

// Before any semester has been activated the dashboard is an empty shell,
// not an error.
func (suite *DashboardServiceTestSuite) TestBuild_NoActiveSemester() {
	resp, err := suite.service.Build(suite.admin, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	assert.Nil(suite.T(), resp.SemesterID)
	assert.Nil(suite.T(), resp.SemesterName)
	assert.Empty(suite.T(), resp.Weeks)
	assert.Equal(suite.T(), string(models.RoleAdmin), resp.UserRole)

	// A semester that exists but is not active changes nothing.
	suite.seedSemester(false)
	resp, err = suite.service.Build(suite.admin, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	assert.Nil(suite.T(), resp.SemesterID)
	assert.Empty(suite.T(), resp.Weeks)
}

func (suite *DashboardServiceTestSuite) TestBuild_ActiveSemesterTree() {
	semester, _, event := suite.seedSemester(true)
	suite.Require().NoError(suite.db.Create(&models.Task{EventID: event.ID, Title: "Bring snacks"}).Error)
	suite.Require().NoError(suite.db.Create(&models.Task{EventID: event.ID, Title: "Arrange chairs", TaskType: models.TaskTypeSetup}).Error)
	suite.Require().NoError(suite.db.Create(&models.Task{EventID: event.ID, Title: "Take photos", Status: models.TaskStatusDone}).Error)

	resp, err := suite.service.Build(suite.admin, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	suite.Require().NotNil(resp.SemesterID)
	assert.Equal(suite.T(), semester.ID, *resp.SemesterID)
	suite.Require().Len(resp.Weeks, 1)
	suite.Require().Len(resp.Weeks[0].Events, 1)

	got := resp.Weeks[0].Events[0]
	assert.Equal(suite.T(), event.Name, got.Name)
	assert.Len(suite.T(), got.Tasks, 3)
	// SETUP and completed tasks never count toward pending work.
	assert.Equal(suite.T(), 1, got.PendingCount)
}

// Members only see tasks that resolve to them; admins see everything.
func (suite *DashboardServiceTestSuite) TestBuild_MemberVisibility() {
	_, _, event := suite.seedSemester(true)

	member := &models.User{Username: "huda", PasswordHash: "x", DisplayName: "huda", Role: models.RoleMember}
	suite.Require().NoError(suite.db.Create(member).Error)

	suite.Require().NoError(suite.db.Create(&models.Task{EventID: event.ID, Title: "Mine", AssignedTo: &member.ID}).Error)
	suite.Require().NoError(suite.db.Create(&models.Task{EventID: event.ID, Title: "Not mine"}).Error)

	resp, err := suite.service.Build(member, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	suite.Require().Len(resp.Weeks, 1)
	suite.Require().Len(resp.Weeks[0].Events[0].Tasks, 1)
	assert.Equal(suite.T(), "Mine", resp.Weeks[0].Events[0].Tasks[0].Title)

	resp, err = suite.service.Build(suite.admin, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	assert.Len(suite.T(), resp.Weeks[0].Events[0].Tasks, 2)
}

// The current-week flag follows the viewer's calendar date, not the raw
// instant, so early morning in a zone ahead of UTC and late evening in a
// zone behind it still land inside the week.
func (suite *DashboardServiceTestSuite) TestBuild_IsCurrentUsesLocalDate() {
	suite.seedSemester(true)

	build := func(now time.Time) bool {
		resp, err := suite.service.Build(suite.admin, now)
		suite.Require().NoError(err)
		suite.Require().Len(resp.Weeks, 1)
		return resp.Weeks[0].IsCurrent
	}

	assert.True(suite.T(), build(time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)))

	// 00:30 on the first day in UTC+10 is still Feb 28 as an instant.
	ahead := time.FixedZone("UTC+10", 10*60*60)
	assert.True(suite.T(), build(time.Date(2026, 3, 1, 0, 30, 0, 0, ahead)))

	// 21:00 on the last day in UTC-5 is already Mar 8 as an instant.
	behind := time.FixedZone("UTC-5", -5*60*60)
	assert.True(suite.T(), build(time.Date(2026, 3, 7, 21, 0, 0, 0, behind)))

	assert.False(suite.T(), build(time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC)))
	assert.False(suite.T(), build(time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)))
}

func TestDashboardServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DashboardServiceTestSuite))
}
