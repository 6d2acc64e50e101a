package service

import (
	"context"
	"fmt"
	"strings"

	"newsroomCMS/internal/errs"
	"newsroomCMS/internal/models"
	"newsroomCMS/internal/repository"
)

type CommentService interface {
	Add(ctx context.Context, postID, userID int64, content string) (*models.Comment, error)
	ListForPost(ctx context.Context, postID int64, includeUnmoderated bool) ([]models.Comment, error)
	Moderate(ctx context.Context, commentID int64, status string) error
	Remove(ctx context.Context, commentID, requesterID int64, requesterRole string) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

func (c *commentService) Add(ctx context.Context, postID, userID int64, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("content обязателен: %w", errs.ErrValidation)
	}

	if _, err := c.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: strings.TrimSpace(content),
	}

	if err := c.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (c *commentService) ListForPost(ctx context.Context, postID int64, includeUnmoderated bool) ([]models.Comment, error) {
	return c.commentRepo.GetByPostID(ctx, postID, !includeUnmoderated)
}

// Moderate принимает только вердикты Approved и Rejected
func (c *commentService) Moderate(ctx context.Context, commentID int64, status string) error {
	if status != models.CommentApproved && status != models.CommentRejected {
		return fmt.Errorf("недопустимый вердикт %q: %w", status, errs.ErrValidation)
	}

	return c.commentRepo.UpdateStatus(ctx, commentID, status)
}

// Remove разрешён администратору и автору комментария
func (c *commentService) Remove(ctx context.Context, commentID, requesterID int64, requesterRole string) error {
	comment, err := c.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if requesterRole != models.RoleAdmin && comment.UserID != requesterID {
		return fmt.Errorf("удалять комментарий может только его автор или администратор: %w", errs.ErrForbidden)
	}

	return c.commentRepo.Delete(ctx, commentID)
}
