package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"net/http"

	"newsroomCMS/internal/config"
	"newsroomCMS/internal/models"
	"newsroomCMS/internal/repository"
	"newsroomCMS/internal/service"
)

// HealthChecker - проверка живости хранилища
type HealthChecker interface {
	HealthCheck() error
}

type Handlers struct {
	AuthService    service.AuthService
	UserService    service.UserService
	PostService    service.PostService
	MediaService   service.MediaService
	CommentService service.CommentService
	StatsService   service.StatsService
	TaxonomyRepo   repository.TaxonomyRepository
	TagRepo        repository.TagRepository
	DB             HealthChecker
	Cfg            *config.Config
	Validate       *validator.Validate
	Logger         zerolog.Logger
}

func NewHandlers(repo *repository.Repository, services *service.Service, cfg *config.Config, db HealthChecker, logger zerolog.Logger) *Handlers {
	return &Handlers{
		AuthService:    services.Auth,
		UserService:    services.User,
		PostService:    services.Post,
		MediaService:   services.Media,
		CommentService: services.Comment,
		StatsService:   services.Stats,
		TaxonomyRepo:   repo.Taxonomy,
		TagRepo:        repo.Tag,
		DB:             db,
		Cfg:            cfg,
		Validate:       validator.New(),
		Logger:         logger,
	}
}

// pathID достаёт числовой идентификатор из переменной пути
func pathID(r *http.Request, name string) (int64, bool) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}

	return id, true
}

// identity возвращает данные пользователя из контекста запроса
func identity(r *http.Request) (int64, string, bool) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		return 0, "", false
	}
	role, _ := r.Context().Value("role").(string)
	return userID, role, true
}

func isAdmin(r *http.Request) bool {
	_, role, ok := identity(r)
	return ok && role == models.RoleAdmin
}

func canPublish(r *http.Request) bool {
	_, role, ok := identity(r)
	return ok && (role == models.RoleAdmin || role == models.RoleAuthor)
}
