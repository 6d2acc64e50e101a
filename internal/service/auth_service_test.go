package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroomCMS/internal/config"
	"newsroomCMS/internal/errs"
	"newsroomCMS/internal/models"
)

// fakeUserRepo хранит пользователей в памяти
type fakeUserRepo struct {
	users  map[string]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}, nextID: 1}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	if _, ok := f.users[user.Email]; ok {
		return errs.ErrDuplicate
	}
	user.UserID = f.nextID
	f.nextID++
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	for _, u := range f.users {
		if u.UserID == userID {
			return u, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, user *models.User) error { return nil }

func (f *fakeUserRepo) DeleteUser(ctx context.Context, userID int64) error { return nil }

func (f *fakeUserRepo) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	return nil, errs.ErrValidation
}

func (f *fakeUserRepo) UpdateRefreshToken(ctx context.Context, userID int64, refreshToken string, expiryTime time.Time) error {
	return nil
}

func (f *fakeUserRepo) GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	for _, u := range f.users {
		if u.RefreshToken == refreshToken {
			return u, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUserRepo) CountUsers(ctx context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

// captureMailer запоминает последний отправленный код
type captureMailer struct {
	email string
	code  string
}

func (m *captureMailer) SendOTP(ctx context.Context, email, code string) error {
	m.email, m.code = email, code
	return nil
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:         "test-secret",
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 24 * time.Hour,
		OTPLifetime:          time.Minute,
	}
}

func TestAuthService_RegisterAndVerify(t *testing.T) {
	ctx := context.Background()

	repo := newFakeUserRepo()
	otp, err := NewOTPStore()
	require.NoError(t, err)
	mailer := &captureMailer{}
	svc := NewAuthService(repo, testAuthConfig(), otp, mailer)

	req := RegisterRequest{
		Username: "reporter",
		Email:    "reporter@example.com",
		Password: "secret123",
		Role:     models.RoleAuthor,
	}

	require.NoError(t, svc.Register(ctx, req))
	otp.Wait()

	t.Run("Код отправлен и пользователь ещё не создан", func(t *testing.T) {
		assert.Equal(t, req.Email, mailer.email)
		assert.Len(t, mailer.code, 6)
		assert.Empty(t, repo.users)
	})

	t.Run("Неверный код", func(t *testing.T) {
		_, _, _, err := svc.VerifyOTP(ctx, req.Email, "000000")
		if mailer.code == "000000" {
			t.Skip("сгенерированный код совпал с проверочным")
		}
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("Верный код создаёт пользователя и выдаёт токены", func(t *testing.T) {
		user, accessToken, refreshToken, err := svc.VerifyOTP(ctx, req.Email, mailer.code)

		require.NoError(t, err)
		assert.Equal(t, req.Email, user.Email)
		assert.Equal(t, models.RoleAuthor, user.Role)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)

		token, err := svc.ValidateToken(accessToken)
		require.NoError(t, err)

		claims, ok := token.Claims.(jwt.MapClaims)
		require.True(t, ok)
		assert.Equal(t, req.Email, claims["email"])
		assert.Equal(t, models.RoleAuthor, claims["role"])
	})

	t.Run("Код одноразовый", func(t *testing.T) {
		otp.Wait()
		_, _, _, err := svc.VerifyOTP(ctx, req.Email, mailer.code)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["taken@example.com"] = &models.User{UserID: 1, Email: "taken@example.com"}

	otp, err := NewOTPStore()
	require.NoError(t, err)
	svc := NewAuthService(repo, testAuthConfig(), otp, &captureMailer{})

	err = svc.Register(context.Background(), RegisterRequest{
		Username: "dup",
		Email:    "taken@example.com",
		Password: "secret123",
		Role:     models.RoleReader,
	})

	assert.ErrorIs(t, err, errs.ErrDuplicate)
}

func TestAuthService_ValidateToken_BadSignature(t *testing.T) {
	otp, err := NewOTPStore()
	require.NoError(t, err)
	svc := NewAuthService(newFakeUserRepo(), testAuthConfig(), otp, &captureMailer{})

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": 1})
	signed, err := foreign.SignedString([]byte("другой-секрет"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	assert.Error(t, err)
}
