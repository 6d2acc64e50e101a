package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroomCMS/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecretKey: "test-secret"}
}

func signToken(t *testing.T, secret string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": 7,
		"email":  "user@example.com",
		"role":   "Author",
		"exp":    time.Now().Add(time.Hour).Unix(),
		"iat":    time.Now().Unix(),
	})

	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestIsPublic(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   bool
	}{
		{http.MethodGet, "/health", true},
		{http.MethodGet, "/", true},
		{http.MethodPost, "/api/auth/register", true},
		{http.MethodPost, "/api/auth/login", true},
		{http.MethodGet, "/api/posts", true},
		{http.MethodGet, "/api/posts/7", true},
		{http.MethodGet, "/api/posts/search", true},
		{http.MethodGet, "/api/categories", true},
		{http.MethodGet, "/api/featured-posts", true},
		{http.MethodGet, "/api/posts/subcategory/3/recent", true},
		{http.MethodGet, "/api/tags", true},
		{http.MethodPost, "/api/posts", false},
		{http.MethodPut, "/api/posts/7", false},
		{http.MethodDelete, "/api/posts/7", false},
		{http.MethodGet, "/api/me", false},
		{http.MethodGet, "/api/stats", false},
		{http.MethodGet, "/api/users/7", false},
		{http.MethodPatch, "/api/comments/1/status", false},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.path, nil)
			assert.Equal(t, tt.want, isPublic(r))
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	mw := AuthMiddleware(testConfig())

	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Публичный маршрут без токена", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
		rec := httptest.NewRecorder()

		mw(echo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Закрытый маршрут без токена", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
		rec := httptest.NewRecorder()

		mw(echo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Повреждённый токен", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
		req.Header.Set("Authorization", "Bearer не-токен")
		rec := httptest.NewRecorder()

		mw(echo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Токен с чужой подписью", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "другой-секрет"))
		rec := httptest.NewRecorder()

		mw(echo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Валидный токен кладёт личность в контекст", func(t *testing.T) {
		var gotUserID int64
		var gotRole string

		inspect := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserID, _ = r.Context().Value("userID").(int64)
			gotRole, _ = r.Context().Value("role").(string)
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret"))
		rec := httptest.NewRecorder()

		mw(inspect).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(7), gotUserID)
		assert.Equal(t, "Author", gotRole)
	})

	t.Run("Токен учитывается и на публичном маршруте", func(t *testing.T) {
		var gotRole string

		inspect := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotRole, _ = r.Context().Value("role").(string)
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret"))
		rec := httptest.NewRecorder()

		mw(inspect).ServeHTTP(rec, req)

		assert.Equal(t, "Author", gotRole)
	})
}

func TestRoleMiddleware(t *testing.T) {
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	authMw := AuthMiddleware(testConfig())
	adminOnly := RoleMiddleware("Admin")

	t.Run("Роль не из списка", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret"))
		rec := httptest.NewRecorder()

		authMw(adminOnly(echo)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Без контекста авторизации", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
		rec := httptest.NewRecorder()

		adminOnly(echo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
