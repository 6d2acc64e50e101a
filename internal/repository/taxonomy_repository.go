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

type taxonomyRepository struct {
	db *sqlx.DB
}

func NewTaxonomyRepository(db *sqlx.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

func (r *taxonomyRepository) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	query := `INSERT INTO categories (name) VALUES ($1) RETURNING category_id`

	category := models.Category{Name: name}
	if err := r.db.QueryRowxContext(ctx, query, name).Scan(&category.CategoryID); err != nil {
		return nil, fmt.Errorf("ошибка при создании категории: %w", errs.FromDB(err))
	}

	return &category, nil
}

func (r *taxonomyRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category

	query := `SELECT category_id, name FROM categories ORDER BY name`
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("ошибка при получении категорий: %w", errs.FromDB(err))
	}

	return categories, nil
}

func (r *taxonomyRepository) UpdateCategory(ctx context.Context, categoryID int64, name string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = $1 WHERE category_id = $2`, name, categoryID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении категории: %w", errs.FromDB(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", errs.FromDB(err))
	}

	if rowsAffected == 0 {
		return fmt.Errorf("категория %d не найдена: %w", categoryID, errs.ErrNotFound)
	}

	return nil
}

func (r *taxonomyRepository) DeleteCategory(ctx context.Context, categoryID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE category_id = $1`, categoryID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении категории: %w", errs.FromDB(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", errs.FromDB(err))
	}

	if rowsAffected == 0 {
		return fmt.Errorf("категория %d не найдена: %w", categoryID, errs.ErrNotFound)
	}

	return nil
}

func (r *taxonomyRepository) CreateSubcategory(ctx context.Context, categoryID int64, name string) (*models.Subcategory, error) {
	// категория должна существовать до вставки
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM categories WHERE category_id = $1`, categoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("категория %d не существует: %w", categoryID, errs.ErrForeignKey)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при проверке категории: %w", errs.FromDB(err))
	}

	query := `INSERT INTO subcategories (category_id, name) VALUES ($1, $2) RETURNING subcategory_id`

	sub := models.Subcategory{CategoryID: categoryID, Name: name}
	if err := r.db.QueryRowxContext(ctx, query, categoryID, name).Scan(&sub.SubcategoryID); err != nil {
		return nil, fmt.Errorf("ошибка при создании подкатегории: %w", errs.FromDB(err))
	}

	return &sub, nil
}

func (r *taxonomyRepository) GetSubcategories(ctx context.Context, categoryID int64) ([]models.Subcategory, error) {
	var subs []models.Subcategory

	query := `
		SELECT subcategory_id, category_id, name
		FROM subcategories
		WHERE category_id = $1
		ORDER BY name
	`
	if err := r.db.SelectContext(ctx, &subs, query, categoryID); err != nil {
		return nil, fmt.Errorf("ошибка при получении подкатегорий: %w", errs.FromDB(err))
	}

	return subs, nil
}

func (r *taxonomyRepository) DeleteSubcategory(ctx context.Context, subcategoryID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM subcategories WHERE subcategory_id = $1`, subcategoryID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении подкатегории: %w", errs.FromDB(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", errs.FromDB(err))
	}

	if rowsAffected == 0 {
		return fmt.Errorf("подкатегория %d не найдена: %w", subcategoryID, errs.ErrNotFound)
	}

	return nil
}
