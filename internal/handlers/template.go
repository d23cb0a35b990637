package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/hamdaan-dev/taskboard-api/internal/errors"
	"github.com/hamdaan-dev/taskboard-api/internal/services"
)

// TemplateHandler exposes the predefined event template catalog.
type TemplateHandler struct {
	templateService *services.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
	}
}

// ListTemplates returns the template catalog.
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, h.templateService.List())
}

// CreateFromTemplate creates an event plus its template task list under a
// week in one call.
func (h *TemplateHandler) CreateFromTemplate(c *gin.Context) {
	type CreateFromTemplateRequest struct {
		TemplateID string  `json:"template_id" binding:"required"`
		WeekID     uint64  `json:"week_id" binding:"required"`
		StartsAt   string  `json:"starts_at" binding:"required"`
		EventName  *string `json:"event_name"`
		Location   *string `json:"location"`
	}

	var req CreateFromTemplateRequest
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

	event, err := h.templateService.Instantiate(actor, services.InstantiateTemplateInput{
		TemplateID: req.TemplateID,
		WeekID:     req.WeekID,
		StartsAt:   startsAt,
		Name:       req.EventName,
		Location:   req.Location,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTemplateNotFound),
			errors.Is(err, services.ErrWeekNotFound):
			apierrors.NotFound(c, err.Error())
		default:
			apierrors.InternalError(c, "Internal server error")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  fmt.Sprintf("Created event '%s'", event.Name),
		"event_id": event.ID,
	})
}
