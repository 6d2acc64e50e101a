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

type mediaRepository struct {
	db *sqlx.DB
}

func NewMediaRepository(db *sqlx.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, media *models.Media) error {
	query := `
		INSERT INTO media (post_id, url, type)
		VALUES ($1, $2, $3)
		RETURNING media_id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query, media.PostID, media.URL, media.Type).
		Scan(&media.MediaID, &media.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении медиа: %w", errs.FromDB(err))
	}

	return nil
}

func (r *mediaRepository) GetByID(ctx context.Context, mediaID int64) (*models.Media, error) {
	var media models.Media

	query := `SELECT media_id, post_id, url, type, created_at FROM media WHERE media_id = $1`

	err := r.db.GetContext(ctx, &media, query, mediaID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("медиа %d не найдено: %w", mediaID, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении медиа: %w", errs.FromDB(err))
	}

	return &media, nil
}

func (r *mediaRepository) GetByPostID(ctx context.Context, postID int64) ([]models.Media, error) {
	query := `
		SELECT media_id, post_id, url, type, created_at
		FROM media
		WHERE post_id = $1
		ORDER BY created_at
	`

	var media []models.Media
	if err := r.db.SelectContext(ctx, &media, query, postID); err != nil {
		return nil, fmt.Errorf("ошибка при получении медиа поста: %w", errs.FromDB(err))
	}

	return media, nil
}

func (r *mediaRepository) Delete(ctx context.Context, mediaID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM media WHERE media_id = $1`, mediaID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении медиа: %w", errs.FromDB(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", errs.FromDB(err))
	}

	if rowsAffected == 0 {
		return fmt.Errorf("медиа %d не найдено: %w", mediaID, errs.ErrNotFound)
	}

	return nil
}
