package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hamdaan-dev/taskboard-api/internal/constants"
	"github.com/hamdaan-dev/taskboard-api/internal/dto"
	apierrors "github.com/hamdaan-dev/taskboard-api/internal/errors"
	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"github.com/hamdaan-dev/taskboard-api/internal/services"
)

// UserHandler exposes administrator user management.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns every user account.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List()
	if err != nil {
		apierrors.InternalError(c, "Failed to list users")
		return
	}

	out := make([]dto.UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, dto.ToUserDTO(u))
	}
	c.JSON(http.StatusOK, out)
}

// GetUser returns a single user.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(id)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// CreateUser creates a user account.
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Username    string  `json:"username" binding:"required,min=3,max=50"`
		Password    string  `json:"password" binding:"required"`
		DisplayName string  `json:"display_name" binding:"required"`
		DiscordID   string  `json:"discord_id"`
		Role        string  `json:"role"`
		TeamID      *uint64 `json:"team_id"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	role := models.RoleMember
	if req.Role != "" {
		role = models.Role(req.Role)
		if role != models.RoleAdmin && role != models.RoleMember {
			apierrors.BadRequest(c, "Invalid role")
			return
		}
	}

	user, err := h.userService.Create(actor, services.CreateUserInput{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		DiscordID:   req.DiscordID,
		Role:        role,
		TeamID:      req.TeamID,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// UpdateUser updates a user account.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	type UpdateUserRequest struct {
		Password    *string `json:"password"`
		DisplayName *string `json:"display_name"`
		DiscordID   *string `json:"discord_id"`
		Role        *string `json:"role"`
		TeamID      *uint64 `json:"team_id"`
		ClearTeam   bool    `json:"clear_team"`
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	var role *models.Role
	if req.Role != nil {
		r := models.Role(*req.Role)
		if r != models.RoleAdmin && r != models.RoleMember {
			apierrors.BadRequest(c, "Invalid role")
			return
		}
		role = &r
	}

	user, err := h.userService.Update(actor, id, services.UpdateUserInput{
		Password:    req.Password,
		DisplayName: req.DisplayName,
		DiscordID:   req.DiscordID,
		Role:        role,
		TeamID:      req.TeamID,
		ClearTeam:   req.ClearTeam,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser removes a user account.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(actor, id); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrTeamNotFound):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAdminOnly):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
