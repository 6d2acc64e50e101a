package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroomCMS/internal/errs"
	"newsroomCMS/internal/models"
)

func newMockRepo(t *testing.T) (*PostRepositoryImpl, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPostRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func postRows(ids ...int64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"post_id", "user_id", "category_id", "subcategory_id", "title", "content",
		"status", "featured", "created_at_date", "updated_at_date",
	})
	for _, id := range ids {
		rows.AddRow(id, int64(1), nil, nil, "Заголовок", "Текст", "Published", false, time.Now(), time.Now())
	}
	return rows
}

func TestPostRepository_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("Страница и count используют один предикат", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		filter := PostFilter{
			Keyword: "go",
			Status:  "Published",
			Limit:   2,
			Offset:  2,
		}

		mock.ExpectQuery(regexp.QuoteMeta(
			`AND (LOWER(title) LIKE LOWER($1) OR LOWER(content) LIKE LOWER($1)) AND status = $2 ORDER BY created_at_date DESC, post_id DESC LIMIT $3 OFFSET $4`,
		)).
			WithArgs("%go%", "Published", 2, 2).
			WillReturnRows(postRows(5, 4))

		mock.ExpectQuery(regexp.QuoteMeta(
			`SELECT COUNT(*) FROM posts WHERE 1=1 AND (LOWER(title) LIKE LOWER($1) OR LOWER(content) LIKE LOWER($1)) AND status = $2`,
		)).
			WithArgs("%go%", "Published").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

		posts, total, err := repo.Search(ctx, filter)

		require.NoError(t, err)
		assert.Len(t, posts, 2)
		assert.Equal(t, int64(5), total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Пустой фильтр", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(
			`WHERE 1=1 ORDER BY created_at_date DESC, post_id DESC LIMIT $1 OFFSET $2`,
		)).
			WithArgs(10, 0).
			WillReturnRows(postRows())

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM posts WHERE 1=1`)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		posts, total, err := repo.Search(ctx, PostFilter{Limit: 10})

		require.NoError(t, err)
		assert.Empty(t, posts)
		assert.Zero(t, total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ошибка БД при поиске", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM posts").
			WillReturnError(errors.New("connection reset"))

		_, _, err := repo.Search(ctx, PostFilter{Limit: 10})

		assert.Error(t, err)
	})
}

func TestPostRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Пост с тегами и медиа в одной транзакции", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		post := &models.Post{
			UserID:  1,
			Title:   "Заголовок",
			Content: "Текст",
			Status:  "Published",
		}
		tags := []string{"go", "новости", "go", " "}
		media := []models.MediaInput{{URL: "http://cdn/1.png", Type: "image/png"}}

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM users WHERE user_id = $1`)).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO posts`)).
			WithArgs(int64(1), nil, nil, "Заголовок", "Текст", "Published", false).
			WillReturnRows(sqlmock.NewRows([]string{"post_id", "created_at_date", "updated_at_date"}).
				AddRow(7, time.Now(), time.Now()))

		// дубликат и пустое имя отброшены: ровно две пары upsert+link
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO tags`)).
			WithArgs("go").
			WillReturnRows(sqlmock.NewRows([]string{"tag_id"}).AddRow(10))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO post_tags`)).
			WithArgs(int64(7), int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO tags`)).
			WithArgs("новости").
			WillReturnRows(sqlmock.NewRows([]string{"tag_id"}).AddRow(11))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO post_tags`)).
			WithArgs(int64(7), int64(11)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO media`)).
			WithArgs(int64(7), "http://cdn/1.png", "image/png").
			WillReturnRows(sqlmock.NewRows([]string{"media_id", "created_at"}).AddRow(3, time.Now()))

		mock.ExpectCommit()

		err := repo.Create(ctx, post, tags, media)

		require.NoError(t, err)
		assert.Equal(t, int64(7), post.PostID)
		assert.Len(t, post.Tags, 2)
		assert.Equal(t, "go", post.Tags[0].Name)
		assert.Equal(t, "новости", post.Tags[1].Name)
		assert.Len(t, post.Media, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Несуществующий автор откатывает транзакцию", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		post := &models.Post{UserID: 9999, Title: "x", Content: "y", Status: "Draft"}

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM users WHERE user_id = $1`)).
			WithArgs(int64(9999)).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
		mock.ExpectRollback()

		err := repo.Create(ctx, post, nil, nil)

		assert.ErrorIs(t, err, errs.ErrForeignKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Несуществующая категория откатывает транзакцию", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		post := &models.Post{
			UserID:     1,
			CategoryID: ptrInt64(99),
			Title:      "x",
			Content:    "y",
			Status:     "Draft",
		}

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM users WHERE user_id = $1`)).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM categories WHERE category_id = $1`)).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
		mock.ExpectRollback()

		err := repo.Create(ctx, post, nil, nil)

		assert.ErrorIs(t, err, errs.ErrForeignKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Подкатегория из чужой категории откатывает транзакцию", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		post := &models.Post{
			UserID:        1,
			CategoryID:    ptrInt64(2),
			SubcategoryID: ptrInt64(5),
			Title:         "x",
			Content:       "y",
			Status:        "Draft",
		}

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM users WHERE user_id = $1`)).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM categories WHERE category_id = $1`)).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM subcategories WHERE subcategory_id = $1 AND category_id = $2`)).
			WithArgs(int64(5), int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
		mock.ExpectRollback()

		err := repo.Create(ctx, post, nil, nil)

		assert.ErrorIs(t, err, errs.ErrForeignKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Медиа без type откатывает всю транзакцию", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		post := &models.Post{UserID: 1, Title: "x", Content: "y", Status: "Draft"}
		media := []models.MediaInput{{URL: "http://cdn/1.png"}}

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM users WHERE user_id = $1`)).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO posts`)).
			WithArgs(int64(1), nil, nil, "x", "y", "Draft", false).
			WillReturnRows(sqlmock.NewRows([]string{"post_id", "created_at_date", "updated_at_date"}).
				AddRow(7, time.Now(), time.Now()))
		mock.ExpectRollback()

		err := repo.Create(ctx, post, nil, media)

		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Обновление заменяет набор тегов целиком", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		post := &models.Post{
			PostID:  7,
			UserID:  1,
			Title:   "Новый заголовок",
			Content: "Новый текст",
			Status:  "Published",
		}

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM users WHERE user_id = $1`)).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE posts`)).
			WithArgs(int64(1), nil, nil, "Новый заголовок", "Новый текст", "Published", false, int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at_date", "updated_at_date"}).
				AddRow(time.Now(), time.Now()))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM post_tags WHERE post_id = $1`)).
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO tags`)).
			WithArgs("политика").
			WillReturnRows(sqlmock.NewRows([]string{"tag_id"}).AddRow(12))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO post_tags`)).
			WithArgs(int64(7), int64(12)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Update(ctx, post, []string{"политика"}, nil)

		require.NoError(t, err)
		assert.Len(t, post.Tags, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Несуществующий пост", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		post := &models.Post{PostID: 404, UserID: 1, Title: "x", Content: "y", Status: "Draft"}

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM users WHERE user_id = $1`)).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE posts`)).
			WithArgs(int64(1), nil, nil, "x", "y", "Draft", false, int64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at_date", "updated_at_date"}))
		mock.ExpectRollback()

		err := repo.Update(ctx, post, nil, nil)

		assert.ErrorIs(t, err, errs.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Успешное удаление", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM posts WHERE post_id = $1`)).
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, 7))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Несуществующий пост", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM posts WHERE post_id = $1`)).
			WithArgs(int64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, 404), errs.ErrNotFound)
	})
}

func TestPostRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Пост загружается вместе с тегами и медиа", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM posts WHERE post_id").
			WithArgs(int64(7)).
			WillReturnRows(postRows(7))
		mock.ExpectQuery("SELECT t.tag_id, t.name").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"tag_id", "name"}).AddRow(10, "go"))
		mock.ExpectQuery("SELECT media_id, post_id, url, type, created_at").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"media_id", "post_id", "url", "type", "created_at"}).
				AddRow(3, 7, "http://cdn/1.png", "image/png", time.Now()))

		post, err := repo.GetByID(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, int64(7), post.PostID)
		assert.Len(t, post.Tags, 1)
		assert.Len(t, post.Media, 1)
	})

	t.Run("Несуществующий пост", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM posts WHERE post_id").
			WithArgs(int64(404)).
			WillReturnRows(postRows())

		_, err := repo.GetByID(ctx, 404)

		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}
