package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"newsroomCMS/internal/errs"
	"newsroomCMS/internal/models"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateUser сохраняет пользователя; PasswordHash должен быть уже посчитан
func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, role, refresh_token, refresh_token_expiry_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING user_id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role,
		user.RefreshToken, user.RefreshTokenExpiryTime,
	).Scan(&user.UserID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при создании пользователя: %w", errs.FromDB(err))
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE user_id = $1`

	err := r.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пользователь %d не найден: %w", userID, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", errs.FromDB(err))
	}

	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пользователь с email %s не найден: %w", email, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении пользователя по email: %w", errs.FromDB(err))
	}

	return &user, nil
}

func (r *userRepository) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	user, err := r.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("неверный пароль: %w", errs.ErrValidation)
	}

	return user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = $1, email = $2, role = $3
		WHERE user_id = $4
	`

	result, err := r.db.ExecContext(ctx, query, user.Username, user.Email, user.Role, user.UserID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении пользователя: %w", errs.FromDB(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", errs.FromDB(err))
	}

	if rowsAffected == 0 {
		return fmt.Errorf("пользователь %d не найден: %w", user.UserID, errs.ErrNotFound)
	}

	return nil
}

func (r *userRepository) DeleteUser(ctx context.Context, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении пользователя: %w", errs.FromDB(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", errs.FromDB(err))
	}

	if rowsAffected == 0 {
		return fmt.Errorf("пользователь %d не найден: %w", userID, errs.ErrNotFound)
	}

	return nil
}

func (r *userRepository) UpdateRefreshToken(ctx context.Context, userID int64, refreshToken string, expiryTime time.Time) error {
	query := `
		UPDATE users
		SET refresh_token = $1, refresh_token_expiry_time = $2
		WHERE user_id = $3
	`

	_, err := r.db.ExecContext(ctx, query, refreshToken, expiryTime, userID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении refresh token: %w", errs.FromDB(err))
	}

	return nil
}

func (r *userRepository) GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	var user models.User

	query := `
		SELECT * FROM users
		WHERE refresh_token = $1
		AND refresh_token_expiry_time > CURRENT_TIMESTAMP
	`

	err := r.db.GetContext(ctx, &user, query, refreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("недействительный или просроченный refresh token: %w", errs.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении пользователя по refresh token: %w", errs.FromDB(err))
	}

	return &user, nil
}

func (r *userRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64

	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("ошибка при подсчёте пользователей: %w", errs.FromDB(err))
	}

	return count, nil
}
