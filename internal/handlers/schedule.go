package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/hamdaan-dev/taskboard-api/internal/errors"
	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"github.com/hamdaan-dev/taskboard-api/internal/services"
)

// ScheduleHandler exposes week and event management.
type ScheduleHandler struct {
	scheduleService *services.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
	}
}

// ListWeeks returns a semester's weeks in order.
func (h *ScheduleHandler) ListWeeks(c *gin.Context) {
	semesterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	weeks, err := h.scheduleService.ListWeeks(semesterID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, weeks)
}

// CreateWeek adds a week to a semester.
func (h *ScheduleHandler) CreateWeek(c *gin.Context) {
	type CreateWeekRequest struct {
		WeekNumber int    `json:"week_number" binding:"required,min=1"`
		StartDate  string `json:"start_date" binding:"required"`
		EndDate    string `json:"end_date" binding:"required"`
	}

	semesterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		apierrors.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		apierrors.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	week, err := h.scheduleService.CreateWeek(actor, &models.Week{
		SemesterID: semesterID,
		WeekNumber: req.WeekNumber,
		StartDate:  start,
		EndDate:    end,
	})
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, week)
}

// UpdateWeek updates a week's number or dates.
func (h *ScheduleHandler) UpdateWeek(c *gin.Context) {
	type UpdateWeekRequest struct {
		WeekNumber *int    `json:"week_number"`
		StartDate  *string `json:"start_date"`
		EndDate    *string `json:"end_date"`
	}

	weekID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	week, err := h.scheduleService.GetWeek(weekID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	if req.WeekNumber != nil {
		week.WeekNumber = *req.WeekNumber
	}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
			return
		}
		week.StartDate = start
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
			return
		}
		week.EndDate = end
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.scheduleService.UpdateWeek(actor, week); err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, week)
}

// DeleteWeek removes a week and everything under it.
func (h *ScheduleHandler) DeleteWeek(c *gin.Context) {
	weekID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.scheduleService.DeleteWeek(actor, weekID); err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Week deleted successfully",
	})
}

// ListEvents returns a week's events.
func (h *ScheduleHandler) ListEvents(c *gin.Context) {
	weekID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	events, err := h.scheduleService.ListEvents(weekID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetEvent returns a single event.
func (h *ScheduleHandler) GetEvent(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	event, err := h.scheduleService.GetEvent(eventID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// CreateEvent adds an event to a week.
func (h *ScheduleHandler) CreateEvent(c *gin.Context) {
	type CreateEventRequest struct {
		Name     string `json:"name" binding:"required,max=200"`
		StartsAt string `json:"starts_at" binding:"required"`
		Location string `json:"location"`
	}

	weekID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		apierrors.BadRequest(c, "Invalid starts_at, expected RFC3339")
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	event, err := h.scheduleService.CreateEvent(actor, &models.Event{
		WeekID:   weekID,
		Name:     req.Name,
		StartsAt: startsAt,
		Location: req.Location,
	})
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// UpdateEvent updates an event's details.
func (h *ScheduleHandler) UpdateEvent(c *gin.Context) {
	type UpdateEventRequest struct {
		Name     *string `json:"name"`
		StartsAt *string `json:"starts_at"`
		Location *string `json:"location"`
	}

	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	event, err := h.scheduleService.GetEvent(eventID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.StartsAt != nil {
		startsAt, err := time.Parse(time.RFC3339, *req.StartsAt)
		if err != nil {
			apierrors.BadRequest(c, "Invalid starts_at, expected RFC3339")
			return
		}
		event.StartsAt = startsAt
	}
	if req.Location != nil {
		event.Location = *req.Location
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.scheduleService.UpdateEvent(actor, event); err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent removes an event and its tasks.
func (h *ScheduleHandler) DeleteEvent(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.scheduleService.DeleteEvent(actor, eventID); err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event deleted successfully",
	})
}

func respondScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSemesterNotFound),
		errors.Is(err, services.ErrWeekNotFound),
		errors.Is(err, services.ErrEventNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrWeekOutOfBounds),
		errors.Is(err, services.ErrEventNameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrDuplicateWeekNumber):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
