package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"newsroomCMS/internal/errs"
	"newsroomCMS/internal/models"
)

const postColumns = `post_id, user_id, category_id, subcategory_id, title, content, status, featured, created_at_date, updated_at_date`

type PostRepositoryImpl struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{db: db}
}

// Create создаёт пост вместе с тегами и медиа в одной транзакции.
// Любая ошибка на шагах проверки и вставки откатывает всё целиком.
func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post, tagNames []string, media []models.MediaInput) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка при открытии транзакции: %w", errs.FromDB(err))
	}
	defer tx.Rollback()

	if err := validateRefs(ctx, tx, post); err != nil {
		return err
	}

	query := `
		INSERT INTO posts (user_id, category_id, subcategory_id, title, content, status, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING post_id, created_at_date, updated_at_date
	`

	err = tx.QueryRowxContext(ctx, query,
		post.UserID, post.CategoryID, post.SubcategoryID,
		post.Title, post.Content, post.Status, post.Featured,
	).Scan(&post.PostID, &post.CreatedAtDate, &post.UpdatedAtDate)
	if err != nil {
		return fmt.Errorf("ошибка при создании поста: %w", errs.FromDB(err))
	}

	tags, err := attachTags(ctx, tx, post.PostID, tagNames)
	if err != nil {
		return err
	}
	post.Tags = tags

	attached, err := attachMedia(ctx, tx, post.PostID, media)
	if err != nil {
		return err
	}
	post.Media = attached

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", errs.FromDB(err))
	}

	return nil
}

// Update обновляет пост и заменяет весь набор его тегов; переданные медиа
// добавляются к уже существующим. Всё выполняется в одной транзакции.
func (r *PostRepositoryImpl) Update(ctx context.Context, post *models.Post, tagNames []string, media []models.MediaInput) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка при открытии транзакции: %w", errs.FromDB(err))
	}
	defer tx.Rollback()

	if err := validateRefs(ctx, tx, post); err != nil {
		return err
	}

	query := `
		UPDATE posts
		SET user_id = $1, category_id = $2, subcategory_id = $3, title = $4,
		    content = $5, status = $6, featured = $7, updated_at_date = CURRENT_TIMESTAMP
		WHERE post_id = $8
		RETURNING created_at_date, updated_at_date
	`

	err = tx.QueryRowxContext(ctx, query,
		post.UserID, post.CategoryID, post.SubcategoryID,
		post.Title, post.Content, post.Status, post.Featured, post.PostID,
	).Scan(&post.CreatedAtDate, &post.UpdatedAtDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("пост %d не найден: %w", post.PostID, errs.ErrNotFound)
		}
		return fmt.Errorf("ошибка при обновлении поста: %w", errs.FromDB(err))
	}

	// замена набора тегов целиком
	if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1`, post.PostID); err != nil {
		return fmt.Errorf("ошибка при очистке тегов поста: %w", errs.FromDB(err))
	}

	tags, err := attachTags(ctx, tx, post.PostID, tagNames)
	if err != nil {
		return err
	}
	post.Tags = tags

	attached, err := attachMedia(ctx, tx, post.PostID, media)
	if err != nil {
		return err
	}
	post.Media = attached

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", errs.FromDB(err))
	}

	return nil
}

func (r *PostRepositoryImpl) Delete(ctx context.Context, postID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE post_id = $1`, postID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении поста: %w", errs.FromDB(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", errs.FromDB(err))
	}

	if rowsAffected == 0 {
		return fmt.Errorf("пост %d не найден: %w", postID, errs.ErrNotFound)
	}

	return nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE post_id = $1`

	var post models.Post
	err := r.db.GetContext(ctx, &post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пост %d не найден: %w", postID, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении поста: %w", errs.FromDB(err))
	}

	tagsQuery := `
		SELECT t.tag_id, t.name
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.tag_id
		WHERE pt.post_id = $1
		ORDER BY t.name
	`
	if err := r.db.SelectContext(ctx, &post.Tags, tagsQuery, postID); err != nil {
		return nil, fmt.Errorf("ошибка при получении тегов поста: %w", errs.FromDB(err))
	}

	mediaQuery := `
		SELECT media_id, post_id, url, type, created_at
		FROM media
		WHERE post_id = $1
		ORDER BY created_at
	`
	if err := r.db.SelectContext(ctx, &post.Media, mediaQuery, postID); err != nil {
		return nil, fmt.Errorf("ошибка при получении медиа поста: %w", errs.FromDB(err))
	}

	return &post, nil
}

func (r *PostRepositoryImpl) GetAll(ctx context.Context) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at_date DESC, post_id DESC`

	var posts []models.Post
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("ошибка при получении постов: %w", errs.FromDB(err))
	}

	return posts, nil
}

func (r *PostRepositoryImpl) GetPublished(ctx context.Context) ([]models.Post, error) {
	query := `
		SELECT ` + postColumns + ` FROM posts
		WHERE status = $1
		ORDER BY created_at_date DESC, post_id DESC
	`

	var posts []models.Post
	if err := r.db.SelectContext(ctx, &posts, query, models.StatusPublished); err != nil {
		return nil, fmt.Errorf("ошибка при получении опубликованных постов: %w", errs.FromDB(err))
	}

	return posts, nil
}

func (r *PostRepositoryImpl) GetFeatured(ctx context.Context, limit int) ([]models.Post, error) {
	query := `
		SELECT ` + postColumns + ` FROM posts
		WHERE featured = TRUE
		ORDER BY created_at_date DESC, post_id DESC
		LIMIT $1
	`

	var posts []models.Post
	if err := r.db.SelectContext(ctx, &posts, query, limit); err != nil {
		return nil, fmt.Errorf("ошибка при получении избранных постов: %w", errs.FromDB(err))
	}

	return posts, nil
}

func (r *PostRepositoryImpl) GetFeaturedByCategory(ctx context.Context, categoryID int64, limit int) ([]models.Post, error) {
	query := `
		SELECT ` + postColumns + ` FROM posts
		WHERE category_id = $1 AND featured = TRUE
		ORDER BY created_at_date DESC, post_id DESC
		LIMIT $2
	`

	var posts []models.Post
	if err := r.db.SelectContext(ctx, &posts, query, categoryID, limit); err != nil {
		return nil, fmt.Errorf("ошибка при получении избранных постов категории: %w", errs.FromDB(err))
	}

	return posts, nil
}

func (r *PostRepositoryImpl) GetRecentBySubcategory(ctx context.Context, subcategoryID int64, limit int) ([]models.Post, error) {
	query := `
		SELECT ` + postColumns + ` FROM posts
		WHERE subcategory_id = $1
		ORDER BY created_at_date DESC, post_id DESC
		LIMIT $2
	`

	var posts []models.Post
	if err := r.db.SelectContext(ctx, &posts, query, subcategoryID, limit); err != nil {
		return nil, fmt.Errorf("ошибка при получении постов подкатегории: %w", errs.FromDB(err))
	}

	return posts, nil
}

// Search выполняет постраничный поиск и подсчёт общего числа совпадений.
// Оба запроса строятся из одного предиката, поэтому total всегда
// согласован с выдачей.
func (r *PostRepositoryImpl) Search(ctx context.Context, filter PostFilter) ([]models.Post, int64, error) {
	where, args := buildFilterPredicate(filter)

	query := fmt.Sprintf(
		`SELECT %s FROM posts %s ORDER BY created_at_date DESC, post_id DESC LIMIT $%d OFFSET $%d`,
		postColumns, where, len(args)+1, len(args)+2,
	)

	pagedArgs := make([]interface{}, 0, len(args)+2)
	pagedArgs = append(pagedArgs, args...)
	pagedArgs = append(pagedArgs, filter.Limit, filter.Offset)

	var posts []models.Post
	if err := r.db.SelectContext(ctx, &posts, query, pagedArgs...); err != nil {
		return nil, 0, fmt.Errorf("ошибка при поиске постов: %w", errs.FromDB(err))
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM posts %s`, where)

	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("ошибка при подсчёте постов: %w", errs.FromDB(err))
	}

	return posts, total, nil
}

// validateRefs проверяет внешние ссылки поста до каких-либо вставок:
// автор обязателен, категория/подкатегория проверяются если заданы,
// подкатегория должна принадлежать категории когда заданы обе.
func validateRefs(ctx context.Context, tx *sqlx.Tx, post *models.Post) error {
	ok, err := existsInTx(ctx, tx, `SELECT 1 FROM users WHERE user_id = $1`, post.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("пользователь %d не существует: %w", post.UserID, errs.ErrForeignKey)
	}

	if post.CategoryID != nil {
		ok, err := existsInTx(ctx, tx, `SELECT 1 FROM categories WHERE category_id = $1`, *post.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("категория %d не существует: %w", *post.CategoryID, errs.ErrForeignKey)
		}
	}

	if post.SubcategoryID != nil {
		var (
			ok  bool
			err error
		)
		if post.CategoryID != nil {
			ok, err = existsInTx(ctx, tx,
				`SELECT 1 FROM subcategories WHERE subcategory_id = $1 AND category_id = $2`,
				*post.SubcategoryID, *post.CategoryID)
		} else {
			ok, err = existsInTx(ctx, tx,
				`SELECT 1 FROM subcategories WHERE subcategory_id = $1`, *post.SubcategoryID)
		}
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("подкатегория %d не существует или не принадлежит категории: %w",
				*post.SubcategoryID, errs.ErrForeignKey)
		}
	}

	return nil
}

// attachTags создаёт недостающие теги и связывает их с постом. Гонки при
// одновременном создании одного тега разрешает ON CONFLICT по уникальному
// имени, повторная связка гасится ON CONFLICT по паре (post_id, tag_id).
func attachTags(ctx context.Context, tx *sqlx.Tx, postID int64, tagNames []string) ([]models.Tag, error) {
	names := dedupeNames(tagNames)
	if len(names) == 0 {
		return nil, nil
	}

	upsertTag := `
		INSERT INTO tags (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING tag_id
	`
	linkTag := `
		INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		var tagID int64
		if err := tx.QueryRowxContext(ctx, upsertTag, name).Scan(&tagID); err != nil {
			return nil, fmt.Errorf("ошибка при создании тега %q: %w", name, errs.FromDB(err))
		}

		if _, err := tx.ExecContext(ctx, linkTag, postID, tagID); err != nil {
			return nil, fmt.Errorf("ошибка при привязке тега %q: %w", name, errs.FromDB(err))
		}

		tags = append(tags, models.Tag{TagID: tagID, Name: name})
	}

	return tags, nil
}

func attachMedia(ctx context.Context, tx *sqlx.Tx, postID int64, media []models.MediaInput) ([]models.Media, error) {
	if len(media) == 0 {
		return nil, nil
	}

	query := `
		INSERT INTO media (post_id, url, type)
		VALUES ($1, $2, $3)
		RETURNING media_id, created_at
	`

	attached := make([]models.Media, 0, len(media))
	for _, m := range media {
		if m.URL == "" || m.Type == "" {
			return nil, fmt.Errorf("медиа должно содержать url и type: %w", errs.ErrValidation)
		}

		row := models.Media{PostID: &postID, URL: m.URL, Type: m.Type}
		if err := tx.QueryRowxContext(ctx, query, postID, m.URL, m.Type).Scan(&row.MediaID, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка при сохранении медиа: %w", errs.FromDB(err))
		}

		attached = append(attached, row)
	}

	return attached, nil
}

// dedupeNames отбрасывает пустые и повторяющиеся имена, сохраняя порядок
func dedupeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	return out
}

func existsInTx(ctx context.Context, tx *sqlx.Tx, query string, args ...interface{}) (bool, error) {
	var one int
	err := tx.GetContext(ctx, &one, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке ссылки: %w", errs.FromDB(err))
	}
	return true, nil
}
