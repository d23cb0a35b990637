package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/hamdaan-dev/taskboard-api/internal/errors"
	"github.com/hamdaan-dev/taskboard-api/internal/services"
)

// StatsHandler exposes completion-rate reports to administrators.
type StatsHandler struct {
	statsService *services.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// querySemesterID parses the optional semester_id query parameter.
func querySemesterID(c *gin.Context) (*uint64, bool) {
	raw := c.Query("semester_id")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid semester_id")
		return nil, false
	}
	return &id, true
}

// GetOverview returns installation-wide totals, scoped to one semester
// when semester_id is given.
func (h *StatsHandler) GetOverview(c *gin.Context) {
	semesterID, ok := querySemesterID(c)
	if !ok {
		return
	}

	stats, err := h.statsService.Overview(semesterID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute overview")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListUserStats returns per-member completion records, best rate first.
func (h *StatsHandler) ListUserStats(c *gin.Context) {
	semesterID, ok := querySemesterID(c)
	if !ok {
		return
	}

	stats, err := h.statsService.PerUser(semesterID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute user stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListTeamStats returns per-team completion records, best rate first.
func (h *StatsHandler) ListTeamStats(c *gin.Context) {
	semesterID, ok := querySemesterID(c)
	if !ok {
		return
	}

	stats, err := h.statsService.PerTeam(semesterID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute team stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListSemesterStats returns schedule size and completion per semester.
func (h *StatsHandler) ListSemesterStats(c *gin.Context) {
	stats, err := h.statsService.PerSemester()
	if err != nil {
		apierrors.InternalError(c, "Failed to compute semester stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListWeeklyActivity returns per-week task volume for a semester.
func (h *StatsHandler) ListWeeklyActivity(c *gin.Context) {
	raw := c.Query("semester_id")
	if raw == "" {
		apierrors.BadRequest(c, "semester_id is required")
		return
	}
	semesterID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid semester_id")
		return
	}

	activity, err := h.statsService.WeeklyActivity(semesterID)
	if err != nil {
		if errors.Is(err, services.ErrSemesterNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to compute weekly activity")
		return
	}
	c.JSON(http.StatusOK, activity)
}
