package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/hamdaan-dev/taskboard-api/internal/errors"
	"github.com/hamdaan-dev/taskboard-api/internal/repository"
	"github.com/hamdaan-dev/taskboard-api/internal/services"
	"github.com/hamdaan-dev/taskboard-api/internal/utils"
)

// AuditHandler exposes the append-only audit log to administrators.
type AuditHandler struct {
	auditService *services.AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

// ListAuditLog returns audit entries newest first, filterable by action,
// entity type, and acting user.
func (h *AuditHandler) ListAuditLog(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := repository.AuditFilter{
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
		Page:       params.Page,
		PageSize:   params.Limit,
	}

	if userIDStr := c.Query("user_id"); userIDStr != "" {
		userID, err := strconv.ParseUint(userIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid user_id")
			return
		}
		filter.UserID = &userID
	}

	entries, total, err := h.auditService.List(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to list audit log")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":    entries,
		"pagination": utils.BuildPaginationResponse(params, total),
	})
}
