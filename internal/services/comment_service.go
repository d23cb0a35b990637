package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hamdaan-dev/taskboard-api/internal/models"
	"github.com/hamdaan-dev/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound        = errors.New("comment not found")
	ErrCommentContentRequired = errors.New("comment content is required")
	ErrNotCommentAuthor       = errors.New("only the author or an administrator can delete this comment")
)

// CommentService handles task comments.
type CommentService struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, taskRepo repository.TaskRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
	}
}

// List lists a task's comments in chronological order
func (s *CommentService) List(taskID uint64) ([]models.TaskComment, error) {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return s.commentRepo.ListByTask(taskID)
}

// Create adds a comment to a task
func (s *CommentService) Create(author *models.User, taskID uint64, content string) (*models.TaskComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrCommentContentRequired
	}

	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	comment := &models.TaskComment{
		TaskID:  taskID,
		UserID:  author.ID,
		Content: content,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// Delete removes a comment. Only the author or an administrator may delete.
func (s *CommentService) Delete(actor *models.User, commentID uint64) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to find comment: %w", err)
	}

	if comment.UserID != actor.ID && !actor.IsAdmin() {
		return ErrNotCommentAuthor
	}

	return s.commentRepo.Delete(commentID)
}
