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

// StatsServiceTestSuite defines the test suite for StatsService
type StatsServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *StatsService
}

func (suite *StatsServiceTestSuite) SetupTest() {
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
	)
	suite.Require().NoError(err)
	database.SetDB(suite.db)

	suite.service = NewStatsService(
		repository.NewStatsRepository(suite.db),
		repository.NewUserRepository(suite.db),
		repository.NewTeamRepository(suite.db),
		repository.NewSemesterRepository(suite.db),
		repository.NewWeekRepository(suite.db),
	)
}

func (suite *StatsServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *StatsServiceTestSuite) createUser(username string, role models.Role, teamID *uint64) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "x",
		DisplayName:  username,
		Role:         role,
		TeamID:       teamID,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *StatsServiceTestSuite) seedSchedule(name string) (*models.Semester, *models.Week, *models.Event) {
	semester := &models.Semester{
		Name:      name,
		StartDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC),
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

func (suite *StatsServiceTestSuite) createTask(eventID uint64, status models.TaskStatus, assignedTo, teamID *uint64) {
	task := &models.Task{
		EventID:        eventID,
		Title:          "Bring snacks",
		Status:         status,
		AssignedTo:     assignedTo,
		AssignedTeamID: teamID,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
}

func (suite *StatsServiceTestSuite) TestOverview() {
	suite.createUser("root", models.RoleAdmin, nil)
	suite.createUser("huda", models.RoleMember, nil)
	_, _, event := suite.seedSchedule("Spring 2026")

	suite.createTask(event.ID, models.TaskStatusDone, nil, nil)
	suite.createTask(event.ID, models.TaskStatusDone, nil, nil)
	suite.createTask(event.ID, models.TaskStatusPending, nil, nil)

	stats, err := suite.service.Overview(nil)
	suite.Require().NoError(err)
	assert.EqualValues(suite.T(), 2, stats.TotalUsers)
	assert.EqualValues(suite.T(), 1, stats.TotalSemesters)
	assert.EqualValues(suite.T(), 1, stats.TotalEvents)
	assert.EqualValues(suite.T(), 3, stats.TotalTasks)
	assert.EqualValues(suite.T(), 2, stats.TasksCompleted)
	assert.EqualValues(suite.T(), 1, stats.TasksPending)
	assert.EqualValues(suite.T(), 0, stats.TasksCannotDo)
	assert.InDelta(suite.T(), 66.7, stats.CompletionRate, 0.001)
}

func (suite *StatsServiceTestSuite) TestOverview_NoTasks() {
	stats, err := suite.service.Overview(nil)
	suite.Require().NoError(err)
	assert.EqualValues(suite.T(), 0, stats.TotalTasks)
	assert.Zero(suite.T(), stats.CompletionRate)
}

// Scoping to a semester ignores every other semester's events and tasks.
func (suite *StatsServiceTestSuite) TestOverview_SemesterScope() {
	semester, _, event := suite.seedSchedule("Spring 2026")
	_, _, otherEvent := suite.seedSchedule("Fall 2026")

	suite.createTask(event.ID, models.TaskStatusDone, nil, nil)
	suite.createTask(otherEvent.ID, models.TaskStatusPending, nil, nil)
	suite.createTask(otherEvent.ID, models.TaskStatusPending, nil, nil)

	stats, err := suite.service.Overview(&semester.ID)
	suite.Require().NoError(err)
	assert.EqualValues(suite.T(), 1, stats.TotalEvents)
	assert.EqualValues(suite.T(), 1, stats.TotalTasks)
	assert.InDelta(suite.T(), 100.0, stats.CompletionRate, 0.001)
	// Totals that are not semester-bound stay installation-wide.
	assert.EqualValues(suite.T(), 2, stats.TotalSemesters)
}

// Per-user records cover individually assigned tasks only, leave admins
// out, and sort by completion rate.
func (suite *StatsServiceTestSuite) TestPerUser() {
	team := &models.Team{Name: "Media", Color: "#ff0000"}
	suite.Require().NoError(suite.db.Create(team).Error)

	suite.createUser("root", models.RoleAdmin, nil)
	slacker := suite.createUser("omar", models.RoleMember, nil)
	achiever := suite.createUser("huda", models.RoleMember, &team.ID)
	_, _, event := suite.seedSchedule("Spring 2026")

	suite.createTask(event.ID, models.TaskStatusDone, &achiever.ID, nil)
	suite.createTask(event.ID, models.TaskStatusDone, &achiever.ID, nil)
	suite.createTask(event.ID, models.TaskStatusDone, &slacker.ID, nil)
	suite.createTask(event.ID, models.TaskStatusCannotDo, &slacker.ID, nil)
	suite.createTask(event.ID, models.TaskStatusPending, nil, &team.ID)

	stats, err := suite.service.PerUser(nil)
	suite.Require().NoError(err)
	suite.Require().Len(stats, 2)

	assert.Equal(suite.T(), achiever.ID, stats[0].UserID)
	assert.EqualValues(suite.T(), 2, stats[0].TasksAssigned)
	assert.InDelta(suite.T(), 100.0, stats[0].CompletionRate, 0.001)
	suite.Require().NotNil(stats[0].TeamName)
	assert.Equal(suite.T(), "Media", *stats[0].TeamName)

	assert.Equal(suite.T(), slacker.ID, stats[1].UserID)
	assert.EqualValues(suite.T(), 2, stats[1].TasksAssigned)
	assert.EqualValues(suite.T(), 1, stats[1].TasksCannotDo)
	assert.InDelta(suite.T(), 50.0, stats[1].CompletionRate, 0.001)
	assert.Nil(suite.T(), stats[1].TeamName)
}

func (suite *StatsServiceTestSuite) TestPerTeam() {
	media := &models.Team{Name: "Media", Color: "#ff0000"}
	logistics := &models.Team{Name: "Logistics", Color: "#00ff00"}
	suite.Require().NoError(suite.db.Create(media).Error)
	suite.Require().NoError(suite.db.Create(logistics).Error)

	suite.createUser("huda", models.RoleMember, &media.ID)
	suite.createUser("omar", models.RoleMember, &media.ID)
	_, _, event := suite.seedSchedule("Spring 2026")

	suite.createTask(event.ID, models.TaskStatusDone, nil, &media.ID)
	suite.createTask(event.ID, models.TaskStatusPending, nil, &media.ID)
	suite.createTask(event.ID, models.TaskStatusDone, nil, &logistics.ID)

	stats, err := suite.service.PerTeam(nil)
	suite.Require().NoError(err)
	suite.Require().Len(stats, 2)

	assert.Equal(suite.T(), "Logistics", stats[0].TeamName)
	assert.InDelta(suite.T(), 100.0, stats[0].CompletionRate, 0.001)
	assert.EqualValues(suite.T(), 0, stats[0].MemberCount)

	assert.Equal(suite.T(), "Media", stats[1].TeamName)
	assert.EqualValues(suite.T(), 2, stats[1].MemberCount)
	assert.InDelta(suite.T(), 50.0, stats[1].CompletionRate, 0.001)
}

func (suite *StatsServiceTestSuite) TestPerSemester() {
	_, _, event := suite.seedSchedule("Spring 2026")
	suite.seedSchedule("Fall 2026")

	suite.createTask(event.ID, models.TaskStatusDone, nil, nil)
	suite.createTask(event.ID, models.TaskStatusPending, nil, nil)

	stats, err := suite.service.PerSemester()
	suite.Require().NoError(err)
	suite.Require().Len(stats, 2)

	for _, entry := range stats {
		switch entry.SemesterName {
		case "Spring 2026":
			assert.EqualValues(suite.T(), 1, entry.WeeksCount)
			assert.EqualValues(suite.T(), 1, entry.EventsCount)
			assert.EqualValues(suite.T(), 2, entry.TasksCount)
			assert.InDelta(suite.T(), 50.0, entry.CompletionRate, 0.001)
		case "Fall 2026":
			assert.EqualValues(suite.T(), 0, entry.TasksCount)
			assert.Zero(suite.T(), entry.CompletionRate)
		}
	}
}

func (suite *StatsServiceTestSuite) TestWeeklyActivity() {
	semester, week, event := suite.seedSchedule("Spring 2026")

	quietWeek := &models.Week{
		SemesterID: semester.ID,
		WeekNumber: 2,
		StartDate:  time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	}
	suite.Require().NoError(suite.db.Create(quietWeek).Error)

	suite.createTask(event.ID, models.TaskStatusDone, nil, nil)
	suite.createTask(event.ID, models.TaskStatusPending, nil, nil)

	activity, err := suite.service.WeeklyActivity(semester.ID)
	suite.Require().NoError(err)
	suite.Require().Len(activity, 2)

	assert.Equal(suite.T(), week.WeekNumber, activity[0].WeekNumber)
	assert.Equal(suite.T(), "2026-03-01", activity[0].StartDate)
	assert.EqualValues(suite.T(), 2, activity[0].TasksCreated)
	assert.EqualValues(suite.T(), 1, activity[0].TasksCompleted)

	assert.Equal(suite.T(), 2, activity[1].WeekNumber)
	assert.EqualValues(suite.T(), 0, activity[1].TasksCreated)
}

func (suite *StatsServiceTestSuite) TestWeeklyActivity_UnknownSemester() {
	_, err := suite.service.WeeklyActivity(999)
	assert.ErrorIs(suite.T(), err, ErrSemesterNotFound)
}

func TestStatsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StatsServiceTestSuite))
}
