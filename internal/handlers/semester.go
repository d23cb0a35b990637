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

// SemesterHandler exposes semester lifecycle management.
type SemesterHandler struct {
	semesterService *services.SemesterService
}

// NewSemesterHandler creates a new SemesterHandler.
func NewSemesterHandler(semesterService *services.SemesterService) *SemesterHandler {
	return &SemesterHandler{
		semesterService: semesterService,
	}
}

const semesterDateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(semesterDateLayout, s)
}

// ListSemesters returns every semester.
func (h *SemesterHandler) ListSemesters(c *gin.Context) {
	semesters, err := h.semesterService.List()
	if err != nil {
		apierrors.InternalError(c, "Failed to list semesters")
		return
	}
	c.JSON(http.StatusOK, semesters)
}

// GetActiveSemester returns the active semester, or null when none is set.
func (h *SemesterHandler) GetActiveSemester(c *gin.Context) {
	semester, err := h.semesterService.Active()
	if err != nil {
		apierrors.InternalError(c, "Failed to find active semester")
		return
	}
	c.JSON(http.StatusOK, semester)
}

// GetSemester returns a single semester.
func (h *SemesterHandler) GetSemester(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	semester, err := h.semesterService.Get(id)
	if err != nil {
		respondSemesterError(c, err)
		return
	}
	c.JSON(http.StatusOK, semester)
}

// CreateSemester creates a semester, optionally activating it.
func (h *SemesterHandler) CreateSemester(c *gin.Context) {
	type CreateSemesterRequest struct {
		Name      string `json:"name" binding:"required,max=100"`
		StartDate string `json:"start_date" binding:"required"`
		EndDate   string `json:"end_date" binding:"required"`
		IsActive  bool   `json:"is_active"`
	}

	var req CreateSemesterRequest
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

	semester, err := h.semesterService.Create(actor, &models.Semester{
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
		IsActive:  req.IsActive,
	})
	if err != nil {
		respondSemesterError(c, err)
		return
	}

	c.JSON(http.StatusCreated, semester)
}

// UpdateSemester updates a semester's name and dates.
func (h *SemesterHandler) UpdateSemester(c *gin.Context) {
	type UpdateSemesterRequest struct {
		Name      *string `json:"name"`
		StartDate *string `json:"start_date"`
		EndDate   *string `json:"end_date"`
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	semester, err := h.semesterService.Get(id)
	if err != nil {
		respondSemesterError(c, err)
		return
	}

	if req.Name != nil {
		semester.Name = *req.Name
	}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
			return
		}
		semester.StartDate = start
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
			return
		}
		semester.EndDate = end
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.semesterService.Update(actor, semester); err != nil {
		respondSemesterError(c, err)
		return
	}

	c.JSON(http.StatusOK, semester)
}

// ActivateSemester makes the semester the single active one.
func (h *SemesterHandler) ActivateSemester(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.semesterService.Activate(actor, id); err != nil {
		respondSemesterError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Semester activated",
	})
}

// DeleteSemester removes a semester and everything under it.
func (h *SemesterHandler) DeleteSemester(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.semesterService.Delete(actor, id); err != nil {
		respondSemesterError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Semester deleted successfully",
	})
}

func respondSemesterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSemesterNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrSemesterNameRequired),
		errors.Is(err, services.ErrInvalidDateRange):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
