package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"newsroomCMS/internal/errs"
	"newsroomCMS/internal/models"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create сохраняет комментарий; новый комментарий всегда Pending
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (post_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING comment_id, status, created_at
	`

	err := r.db.QueryRowxContext(ctx, query, comment.PostID, comment.UserID, comment.Content).
		Scan(&comment.CommentID, &comment.Status, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при создании комментария: %w", errs.FromDB(err))
	}

	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*models.Comment, error) {
	var comment models.Comment

	query := `SELECT * FROM comments WHERE comment_id = $1`

	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("комментарий %d не найден: %w", commentID, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении комментария: %w", errs.FromDB(err))
	}

	return &comment, nil
}

func (r *commentRepository) GetByPostID(ctx context.Context, postID int64, onlyApproved bool) ([]models.Comment, error) {
	query := `SELECT * FROM comments WHERE post_id = $1 ORDER BY created_at`
	args := []interface{}{postID}

	if onlyApproved {
		query = `SELECT * FROM comments WHERE post_id = $1 AND status = $2 ORDER BY created_at`
		args = append(args, models.CommentApproved)
	}

	var comments []models.Comment
	if err := r.db.SelectContext(ctx, &comments, query, args...); err != nil {
		return nil, fmt.Errorf("ошибка при получении комментариев: %w", errs.FromDB(err))
	}

	return comments, nil
}

func (r *commentRepository) UpdateStatus(ctx context.Context, commentID int64, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE comments SET status = $1 WHERE comment_id = $2`, status, commentID)
	if err != nil {
		return fmt.Errorf("ошибка при модерации комментария: %w", errs.FromDB(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", errs.FromDB(err))
	}

	if rowsAffected == 0 {
		return fmt.Errorf("комментарий %d не найден: %w", commentID, errs.ErrNotFound)
	}

	return nil
}

func (r *commentRepository) Delete(ctx context.Context, commentID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM comments WHERE comment_id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении комментария: %w", errs.FromDB(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", errs.FromDB(err))
	}

	if rowsAffected == 0 {
		return fmt.Errorf("комментарий %d не найден: %w", commentID, errs.ErrNotFound)
	}

	return nil
}
