package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"newsroomCMS/internal/errs"
	"newsroomCMS/internal/models"
)

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

// Collect собирает сводную статистику для административной панели
func (r *statsRepository) Collect(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{
		PostsByStatus: make(map[string]int64),
	}

	type statusCount struct {
		Status string `db:"status"`
		Posts  int64  `db:"posts"`
	}

	var byStatus []statusCount
	err := r.db.SelectContext(ctx, &byStatus, `
		SELECT status, COUNT(*) AS posts
		FROM posts
		GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка при подсчёте постов по статусам: %w", errs.FromDB(err))
	}
	for _, sc := range byStatus {
		stats.PostsByStatus[sc.Status] = sc.Posts
	}

	err = r.db.GetContext(ctx, &stats.PendingComments, `
		SELECT COUNT(*) FROM comments WHERE status = $1
	`, models.CommentPending)
	if err != nil {
		return nil, fmt.Errorf("ошибка при подсчёте комментариев: %w", errs.FromDB(err))
	}

	if err := r.db.GetContext(ctx, &stats.Users, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, fmt.Errorf("ошибка при подсчёте пользователей: %w", errs.FromDB(err))
	}

	err = r.db.SelectContext(ctx, &stats.PostsByCategory, `
		SELECT c.category_id, c.name, COUNT(p.post_id) AS posts
		FROM categories c
		LEFT JOIN posts p ON p.category_id = c.category_id
		GROUP BY c.category_id, c.name
		ORDER BY posts DESC, c.name
		LIMIT 5
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка при подсчёте постов по категориям: %w", errs.FromDB(err))
	}

	err = r.db.SelectContext(ctx, &stats.TopTags, `
		SELECT t.tag_id, t.name, COUNT(pt.post_id) AS posts
		FROM tags t
		LEFT JOIN post_tags pt ON pt.tag_id = t.tag_id
		GROUP BY t.tag_id, t.name
		ORDER BY posts DESC, t.name
		LIMIT 5
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка при подсчёте популярных тегов: %w", errs.FromDB(err))
	}

	return stats, nil
}
