package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hamdaan-dev/taskboard-api/internal/dto"
	apierrors "github.com/hamdaan-dev/taskboard-api/internal/errors"
	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"github.com/hamdaan-dev/taskboard-api/internal/services"
)

// TeamHandler exposes team management.
type TeamHandler struct {
	teamService *services.TeamService
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// ListTeams returns every team.
func (h *TeamHandler) ListTeams(c *gin.Context) {
	teams, err := h.teamService.List()
	if err != nil {
		apierrors.InternalError(c, "Failed to list teams")
		return
	}
	c.JSON(http.StatusOK, teams)
}

// GetTeam returns a single team.
func (h *TeamHandler) GetTeam(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	team, err := h.teamService.Get(id)
	if err != nil {
		respondTeamError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// ListTeamMembers returns the team's current members.
func (h *TeamHandler) ListTeamMembers(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	members, err := h.teamService.Members(id)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	out := make([]dto.UserDTO, 0, len(members))
	for _, m := range members {
		out = append(out, dto.ToUserDTO(m))
	}
	c.JSON(http.StatusOK, out)
}

// CreateTeam creates a team.
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	type CreateTeamRequest struct {
		Name  string `json:"name" binding:"required,max=50"`
		Color string `json:"color"`
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	team, err := h.teamService.Create(actor, &models.Team{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, team)
}

// UpdateTeam renames or recolors a team.
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	type UpdateTeamRequest struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	team, err := h.teamService.Update(actor, id, req.Name, req.Color)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, team)
}

// DeleteTeam removes a team. Members and team-assigned tasks are detached,
// not deleted.
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.teamService.Delete(actor, id); err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Team deleted successfully",
	})
}

func respondTeamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTeamNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTeamNameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTeamNameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrAdminOnly):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
