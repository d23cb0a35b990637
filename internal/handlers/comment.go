package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/hamdaan-dev/taskboard-api/internal/errors"
	"github.com/hamdaan-dev/taskboard-api/internal/services"
)

// CommentHandler exposes task comments.
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// ListComments returns a task's comments oldest first.
func (h *CommentHandler) ListComments(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comments, err := h.commentService.List(taskID)
	if err != nil {
		respondCommentError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// CreateComment adds a comment to a task.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	type CreateCommentRequest struct {
		Content string `json:"content" binding:"required"`
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	author, ok := currentUser(c)
	if !ok {
		return
	}

	comment, err := h.commentService.Create(author, taskID, req.Content)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// DeleteComment removes a comment. Only the author or an administrator may
// delete it.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.commentService.Delete(actor, commentID); err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted successfully",
	})
}

func respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrCommentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCommentContentRequired):
		apierrors.ValidationError(c, err.Error())
	case errors.Is(err, services.ErrNotCommentAuthor):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
