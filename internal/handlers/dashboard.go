package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/hamdaan-dev/taskboard-api/internal/errors"
	"github.com/hamdaan-dev/taskboard-api/internal/services"
)

// DashboardHandler serves the active semester tree.
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetDashboard returns the active semester's weeks, events, and tasks,
// filtered to what the caller may see.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	viewer, ok := currentUser(c)
	if !ok {
		return
	}

	resp, err := h.dashboardService.Build(viewer, time.Now())
	if err != nil {
		apierrors.InternalError(c, "Failed to build dashboard")
		return
	}

	c.JSON(http.StatusOK, resp)
}
