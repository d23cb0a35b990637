package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"github.com/hamdaan-dev/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

var ErrTemplateNotFound = errors.New("template not found")

// TaskTemplate is one predefined task of an event template. AssignedTeam
// names a team to pre-assign the task to; the name is matched against
// existing teams when the template is instantiated.
type TaskTemplate struct {
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	TaskType     models.TaskType `json:"task_type"`
	AssignedTeam string          `json:"assigned_team_name,omitempty"`
}

// EventTemplate is a predefined event with its usual task list.
type EventTemplate struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	DefaultLocation string         `json:"default_location,omitempty"`
	Tasks           []TaskTemplate `json:"tasks"`
}

// eventTemplates is the built-in catalog of recurring events.
var eventTemplates = []EventTemplate{
	{
		ID:              "jumuah",
		Name:            "Jumuah Prayer",
		DefaultLocation: "HBKU Mosque",
		Tasks: []TaskTemplate{
			{Title: "Send email reminder (Thursday)", TaskType: models.TaskTypeStandard},
			{Title: "Prepare khutbah slides", TaskType: models.TaskTypeStandard},
			{Title: "Setup audio equipment", TaskType: models.TaskTypeSetup},
			{Title: "Arrange prayer rugs", TaskType: models.TaskTypeSetup},
			{Title: "Photography/Recording", TaskType: models.TaskTypeStandard, AssignedTeam: "Media"},
		},
	},
	{
		ID:              "halaqa",
		Name:            "Weekly Halaqa",
		DefaultLocation: "LAS 2001",
		Tasks: []TaskTemplate{
			{Title: "Confirm speaker/topic", TaskType: models.TaskTypeStandard},
			{Title: "Post social media announcement", TaskType: models.TaskTypeStandard, AssignedTeam: "Media"},
			{Title: "Setup chairs & projector", TaskType: models.TaskTypeSetup},
			{Title: "Prepare refreshments", TaskType: models.TaskTypeStandard},
		},
	},
	{
		ID:              "sweet_sunday",
		Name:            "Sweet Sunday",
		DefaultLocation: "UC Black Box",
		Tasks: []TaskTemplate{
			{Title: "Order desserts/snacks", TaskType: models.TaskTypeStandard},
			{Title: "Create event poster", TaskType: models.TaskTypeStandard, AssignedTeam: "Media"},
			{Title: "Post on Instagram", TaskType: models.TaskTypeStandard, AssignedTeam: "Media"},
			{Title: "Setup tables & decorations", TaskType: models.TaskTypeSetup},
			{Title: "Photography", TaskType: models.TaskTypeStandard, AssignedTeam: "Media"},
		},
	},
	{
		ID:              "kk",
		Name:            "Karak & Konversations (K&K)",
		DefaultLocation: "TBD",
		Tasks: []TaskTemplate{
			{Title: "Book venue", TaskType: models.TaskTypeStandard},
			{Title: "Order karak/snacks", TaskType: models.TaskTypeStandard},
			{Title: "Prepare discussion topics", TaskType: models.TaskTypeStandard},
			{Title: "Create event poster", TaskType: models.TaskTypeStandard, AssignedTeam: "Media"},
			{Title: "Send email blast", TaskType: models.TaskTypeStandard},
		},
	},
	{
		ID:   "email_announcement",
		Name: "Weekly Email Announcement",
		Tasks: []TaskTemplate{
			{Title: "Collect updates from board members", TaskType: models.TaskTypeStandard},
			{Title: "Draft email content", TaskType: models.TaskTypeStandard},
			{Title: "Design email graphics", TaskType: models.TaskTypeStandard, AssignedTeam: "Media"},
			{Title: "Send via mailing list", TaskType: models.TaskTypeStandard},
		},
	},
	{
		ID:              "eid_prep",
		Name:            "Eid Celebration",
		DefaultLocation: "HBKU Student Center",
		Tasks: []TaskTemplate{
			{Title: "Book venue", TaskType: models.TaskTypeStandard},
			{Title: "Plan menu & order food", TaskType: models.TaskTypeStandard},
			{Title: "Create Eid poster", TaskType: models.TaskTypeStandard, AssignedTeam: "Media"},
			{Title: "Send invitations", TaskType: models.TaskTypeStandard},
			{Title: "Setup decorations", TaskType: models.TaskTypeSetup},
			{Title: "Arrange seating", TaskType: models.TaskTypeSetup},
			{Title: "Photography & video", TaskType: models.TaskTypeStandard, AssignedTeam: "Media"},
			{Title: "Post event recap", TaskType: models.TaskTypeStandard, AssignedTeam: "Media"},
		},
	},
	{
		ID:              "iftar",
		Name:            "Community Iftar",
		DefaultLocation: "HBKU Mosque",
		Tasks: []TaskTemplate{
			{Title: "Order food", TaskType: models.TaskTypeStandard},
			{Title: "Coordinate volunteers", TaskType: models.TaskTypeStandard},
			{Title: "Setup food stations", TaskType: models.TaskTypeSetup},
			{Title: "Prepare dates & water", TaskType: models.TaskTypeSetup},
			{Title: "Photography", TaskType: models.TaskTypeStandard, AssignedTeam: "Media"},
			{Title: "Cleanup coordination", TaskType: models.TaskTypeStandard},
		},
	},
	{
		ID:    "custom",
		Name:  "Custom Event",
		Tasks: []TaskTemplate{},
	},
}

// TemplateService instantiates predefined events with their task lists.
type TemplateService struct {
	weekRepo  repository.WeekRepository
	eventRepo repository.EventRepository
	teamRepo  repository.TeamRepository
	audit     *AuditService
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(
	weekRepo repository.WeekRepository,
	eventRepo repository.EventRepository,
	teamRepo repository.TeamRepository,
	audit *AuditService,
) *TemplateService {
	return &TemplateService{
		weekRepo:  weekRepo,
		eventRepo: eventRepo,
		teamRepo:  teamRepo,
		audit:     audit,
	}
}

// List returns the template catalog
func (s *TemplateService) List() []EventTemplate {
	return eventTemplates
}

// InstantiateTemplateInput describes one template instantiation. Name and
// Location override the template's defaults when set.
type InstantiateTemplateInput struct {
	TemplateID string
	WeekID     uint64
	StartsAt   time.Time
	Name       *string
	Location   *string
}

// Instantiate creates an event under a week together with the template's
// task list. Team pre-assignments are matched by name, ignoring case;
// a template task naming a team that does not exist is created
// unassigned.
func (s *TemplateService) Instantiate(actor *models.User, in InstantiateTemplateInput) (*models.Event, error) {
	var template *EventTemplate
	for i := range eventTemplates {
		if eventTemplates[i].ID == in.TemplateID {
			template = &eventTemplates[i]
			break
		}
	}
	if template == nil {
		return nil, ErrTemplateNotFound
	}

	if _, err := s.weekRepo.FindByID(in.WeekID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWeekNotFound
		}
		return nil, fmt.Errorf("failed to find week: %w", err)
	}

	teams, err := s.teamRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	teamByName := func(name string) *uint64 {
		for i := range teams {
			if strings.EqualFold(teams[i].Name, name) {
				return &teams[i].ID
			}
		}
		return nil
	}

	event := &models.Event{
		WeekID:   in.WeekID,
		Name:     template.Name,
		StartsAt: in.StartsAt,
		Location: template.DefaultLocation,
	}
	if in.Name != nil {
		event.Name = *in.Name
	}
	if in.Location != nil {
		event.Location = *in.Location
	}

	tasks := make([]models.Task, len(template.Tasks))
	for i, tt := range template.Tasks {
		tasks[i] = models.Task{
			Title:       tt.Title,
			Description: tt.Description,
			TaskType:    tt.TaskType,
			Status:      models.TaskStatusPending,
		}
		if tt.AssignedTeam != "" {
			tasks[i].AssignedTeamID = teamByName(tt.AssignedTeam)
		}
	}

	if err := s.eventRepo.CreateWithTasks(event, tasks); err != nil {
		return nil, fmt.Errorf("failed to create event from template: %w", err)
	}

	id := event.ID
	details := fmt.Sprintf("from template %s with %d tasks", template.ID, len(tasks))
	if err := s.audit.Log(&actor.ID, models.AuditActionCreate, "event", &id, event.Name, details); err != nil {
		return nil, err
	}

	return event, nil
}
