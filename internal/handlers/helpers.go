package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/hamdaan-dev/taskboard-api/internal/errors"
	"github.com/hamdaan-dev/taskboard-api/internal/middleware"
	"github.com/hamdaan-dev/taskboard-api/internal/models"
)

// parseIDParam reads a uint64 path parameter, responding 400 on failure.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// currentUser returns the user loaded by middleware.LoadUser, responding 401
// when missing.
func currentUser(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return nil, false
	}
	return user, true
}
