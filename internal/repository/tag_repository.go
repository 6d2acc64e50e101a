package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"newsroomCMS/internal/errs"
	"newsroomCMS/internal/models"
)

type tagRepository struct {
	db *sqlx.DB
}

func NewTagRepository(db *sqlx.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) ListWithCounts(ctx context.Context) ([]models.TagCount, error) {
	query := `
		SELECT t.tag_id, t.name, COUNT(pt.post_id) AS posts
		FROM tags t
		LEFT JOIN post_tags pt ON pt.tag_id = t.tag_id
		GROUP BY t.tag_id, t.name
		ORDER BY posts DESC, t.name
	`

	var tags []models.TagCount
	if err := r.db.SelectContext(ctx, &tags, query); err != nil {
		return nil, fmt.Errorf("ошибка при получении тегов: %w", errs.FromDB(err))
	}

	return tags, nil
}
