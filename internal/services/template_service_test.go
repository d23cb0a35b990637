package services

import (
	"testing"
	"time"

	"github.com/hamdaan-dev/taskboard-api/internal/database"
	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"github.com/hamdaan-dev/taskboard-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TemplateServiceTestSuite defines the test suite for TemplateService
type TemplateServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *TemplateService
	admin   *models.User
	week    *models.Week
}

func (suite *TemplateServiceTestSuite) SetupTest() {
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
		&models.AuditLog{},
	)
	suite.Require().NoError(err)
	database.SetDB(suite.db)

	auditRepo := repository.NewAuditRepository(suite.db)
	suite.service = NewTemplateService(
		repository.NewWeekRepository(suite.db),
		repository.NewEventRepository(suite.db),
		repository.NewTeamRepository(suite.db),
		NewAuditService(auditRepo, zap.NewNop()),
	)

	suite.admin = &models.User{Username: "root", PasswordHash: "x", DisplayName: "root", Role: models.RoleAdmin}
	suite.Require().NoError(suite.db.Create(suite.admin).Error)

	semester := &models.Semester{
		Name:      "Spring 2026",
		StartDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
	suite.Require().NoError(suite.db.Create(semester).Error)

	suite.week = &models.Week{
		SemesterID: semester.ID,
		WeekNumber: 1,
		StartDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
	}
	suite.Require().NoError(suite.db.Create(suite.week).Error)
}

func (suite *TemplateServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TemplateServiceTestSuite) TestList() {
	templates := suite.service.List()
	suite.Require().NotEmpty(templates)

	ids := make(map[string]bool, len(templates))
	for _, t := range templates {
		ids[t.ID] = true
	}
	assert.True(suite.T(), ids["jumuah"])
	assert.True(suite.T(), ids["halaqa"])
	assert.True(suite.T(), ids["custom"])
}

func (suite *TemplateServiceTestSuite) TestInstantiate() {
	startsAt := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)
	event, err := suite.service.Instantiate(suite.admin, InstantiateTemplateInput{
		TemplateID: "halaqa",
		WeekID:     suite.week.ID,
		StartsAt:   startsAt,
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Weekly Halaqa", event.Name)
	assert.Equal(suite.T(), "LAS 2001", event.Location)
	assert.True(suite.T(), event.StartsAt.Equal(startsAt))

	var tasks []models.Task
	suite.Require().NoError(suite.db.Where("event_id = ?", event.ID).Find(&tasks).Error)
	assert.Len(suite.T(), tasks, 4)
	for _, task := range tasks {
		assert.Equal(suite.T(), models.TaskStatusPending, task.Status)
	}

	var audit models.AuditLog
	suite.Require().NoError(suite.db.Where("action = ? AND entity_type = ?", models.AuditActionCreate, "event").First(&audit).Error)
	assert.Contains(suite.T(), audit.Details, "halaqa")
}

// Team pre-assignments match by name regardless of case; without a
// matching team the task is created unassigned.
func (suite *TemplateServiceTestSuite) TestInstantiate_TeamMatching() {
	team := &models.Team{Name: "media", Color: "#ff0000"}
	suite.Require().NoError(suite.db.Create(team).Error)

	event, err := suite.service.Instantiate(suite.admin, InstantiateTemplateInput{
		TemplateID: "halaqa",
		WeekID:     suite.week.ID,
		StartsAt:   time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC),
	})
	suite.Require().NoError(err)

	var assigned []models.Task
	suite.Require().NoError(suite.db.Where("event_id = ? AND assigned_team_id = ?", event.ID, team.ID).Find(&assigned).Error)
	suite.Require().Len(assigned, 1)
	assert.Equal(suite.T(), "Post social media announcement", assigned[0].Title)
}

func (suite *TemplateServiceTestSuite) TestInstantiate_NoMatchingTeam() {
	event, err := suite.service.Instantiate(suite.admin, InstantiateTemplateInput{
		TemplateID: "halaqa",
		WeekID:     suite.week.ID,
		StartsAt:   time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC),
	})
	suite.Require().NoError(err)

	var tasks []models.Task
	suite.Require().NoError(suite.db.Where("event_id = ?", event.ID).Find(&tasks).Error)
	for _, task := range tasks {
		assert.Nil(suite.T(), task.AssignedTeamID)
	}
}

func (suite *TemplateServiceTestSuite) TestInstantiate_Overrides() {
	name := "Tafsir Night"
	location := "Main Hall"
	event, err := suite.service.Instantiate(suite.admin, InstantiateTemplateInput{
		TemplateID: "halaqa",
		WeekID:     suite.week.ID,
		StartsAt:   time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC),
		Name:       &name,
		Location:   &location,
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Tafsir Night", event.Name)
	assert.Equal(suite.T(), "Main Hall", event.Location)
}

func (suite *TemplateServiceTestSuite) TestInstantiate_EmptyTemplate() {
	event, err := suite.service.Instantiate(suite.admin, InstantiateTemplateInput{
		TemplateID: "custom",
		WeekID:     suite.week.ID,
		StartsAt:   time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC),
	})
	suite.Require().NoError(err)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Task{}).Where("event_id = ?", event.ID).Count(&count).Error)
	assert.Zero(suite.T(), count)
}

func (suite *TemplateServiceTestSuite) TestInstantiate_UnknownTemplate() {
	_, err := suite.service.Instantiate(suite.admin, InstantiateTemplateInput{
		TemplateID: "banquet",
		WeekID:     suite.week.ID,
		StartsAt:   time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(suite.T(), err, ErrTemplateNotFound)
}

func (suite *TemplateServiceTestSuite) TestInstantiate_UnknownWeek() {
	_, err := suite.service.Instantiate(suite.admin, InstantiateTemplateInput{
		TemplateID: "halaqa",
		WeekID:     999,
		StartsAt:   time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(suite.T(), err, ErrWeekNotFound)
}

func TestTemplateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TemplateServiceTestSuite))
}
