package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hamdaan-dev/taskboard-api/internal/dto"
	apierrors "github.com/hamdaan-dev/taskboard-api/internal/errors"
	"github.com/hamdaan-dev/taskboard-api/internal/services"
)

// RosterHandler manages per-semester roster membership.
type RosterHandler struct {
	rosterService *services.RosterService
}

// NewRosterHandler creates a new RosterHandler.
func NewRosterHandler(rosterService *services.RosterService) *RosterHandler {
	return &RosterHandler{
		rosterService: rosterService,
	}
}

// ListRoster returns the semester's roster members.
func (h *RosterHandler) ListRoster(c *gin.Context) {
	semesterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	members, err := h.rosterService.List(semesterID)
	if err != nil {
		respondRosterError(c, err)
		return
	}

	out := make([]dto.UserDTO, 0, len(members))
	for _, m := range members {
		out = append(out, dto.ToUserDTO(m.User))
	}
	c.JSON(http.StatusOK, out)
}

// AddToRoster adds the given users to the semester's roster. Unknown and
// already-enrolled users are skipped, not errors.
func (h *RosterHandler) AddToRoster(c *gin.Context) {
	type AddRosterRequest struct {
		UserIDs []uint64 `json:"user_ids"`
		All     bool     `json:"all"`
	}

	semesterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var result *services.RosterActionResult
	var err error
	if req.All {
		result, err = h.rosterService.AddAll(semesterID)
	} else {
		result, err = h.rosterService.Add(semesterID, req.UserIDs)
	}
	if err != nil {
		respondRosterError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RemoveFromRoster removes a user from the semester's roster.
func (h *RosterHandler) RemoveFromRoster(c *gin.Context) {
	semesterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.rosterService.Remove(semesterID, userID); err != nil {
		respondRosterError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User removed from roster",
	})
}

// ListAvailableUsers returns users not yet on the semester's roster.
func (h *RosterHandler) ListAvailableUsers(c *gin.Context) {
	semesterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	users, err := h.rosterService.AvailableUsers(semesterID)
	if err != nil {
		respondRosterError(c, err)
		return
	}

	out := make([]dto.UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, dto.ToUserDTO(u))
	}
	c.JSON(http.StatusOK, out)
}

func respondRosterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSemesterNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotOnRoster):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
