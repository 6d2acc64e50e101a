package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"newsroomCMS/cmd/app"
	"newsroomCMS/internal/config"
	handlers "newsroomCMS/internal/handler"
	"newsroomCMS/internal/middleware"
	"newsroomCMS/internal/models"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		logger.Fatal().Msg("JWT_SECRET_KEY не установлен в .env файле")
	}

	db, repo, services, err := app.App(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("ошибка инициализации приложения")
	}
	defer db.CloseDB()

	handler := handlers.NewHandlers(repo, services, cfg, db, logger)

	router := mux.NewRouter()

	router.HandleFunc("/", handler.Home).Methods(http.MethodGet)
	router.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	// auth
	router.HandleFunc("/api/auth/register", handler.Register).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/verify-otp", handler.VerifyOTP).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", handler.Login).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/refresh-token", handler.Refresh).Methods(http.MethodPost)

	adminOnly := middleware.RoleMiddleware(models.RoleAdmin)

	// users
	router.HandleFunc("/api/me", handler.GetMe).Methods(http.MethodGet)
	router.HandleFunc("/api/users/{id:[0-9]+}", handler.GetUser).Methods(http.MethodGet)
	router.HandleFunc("/api/users/{id:[0-9]+}", handler.UpdateUser).Methods(http.MethodPut)
	router.Handle("/api/users/{id:[0-9]+}", adminOnly(http.HandlerFunc(handler.DeleteUser))).Methods(http.MethodDelete)

	// posts
	router.HandleFunc("/api/posts/search", handler.SearchPosts).Methods(http.MethodGet)
	router.HandleFunc("/api/posts/published", handler.GetPublishedPosts).Methods(http.MethodGet)
	router.HandleFunc("/api/posts", handler.GetPosts).Methods(http.MethodGet)
	router.HandleFunc("/api/posts", handler.CreatePost).Methods(http.MethodPost)
	router.HandleFunc("/api/posts/{id:[0-9]+}", handler.GetPost).Methods(http.MethodGet)
	router.HandleFunc("/api/posts/{id:[0-9]+}", handler.UpdatePost).Methods(http.MethodPut)
	router.HandleFunc("/api/posts/{id:[0-9]+}", handler.DeletePost).Methods(http.MethodDelete)

	// curated feeds
	router.HandleFunc("/api/featured-posts", handler.GetFeaturedPosts).Methods(http.MethodGet)
	router.HandleFunc("/api/featured-posts/category/{id:[0-9]+}", handler.GetFeaturedByCategory).Methods(http.MethodGet)
	router.HandleFunc("/api/posts/subcategory/{id:[0-9]+}/recent", handler.GetRecentBySubcategory).Methods(http.MethodGet)

	// taxonomy: чтение публичное, правка только для администратора
	router.HandleFunc("/api/categories", handler.GetCategories).Methods(http.MethodGet)
	router.Handle("/api/categories", adminOnly(http.HandlerFunc(handler.CreateCategory))).Methods(http.MethodPost)
	router.Handle("/api/categories/{id:[0-9]+}", adminOnly(http.HandlerFunc(handler.UpdateCategory))).Methods(http.MethodPut)
	router.Handle("/api/categories/{id:[0-9]+}", adminOnly(http.HandlerFunc(handler.DeleteCategory))).Methods(http.MethodDelete)
	router.HandleFunc("/api/categories/{id:[0-9]+}/subcategories", handler.GetSubcategories).Methods(http.MethodGet)
	router.Handle("/api/categories/{id:[0-9]+}/subcategories", adminOnly(http.HandlerFunc(handler.CreateSubcategory))).Methods(http.MethodPost)
	router.Handle("/api/subcategories/{id:[0-9]+}", adminOnly(http.HandlerFunc(handler.DeleteSubcategory))).Methods(http.MethodDelete)
	router.HandleFunc("/api/tags", handler.GetTags).Methods(http.MethodGet)

	// comments
	router.HandleFunc("/api/posts/{id:[0-9]+}/comments", handler.GetComments).Methods(http.MethodGet)
	router.HandleFunc("/api/posts/{id:[0-9]+}/comments", handler.AddComment).Methods(http.MethodPost)
	router.Handle("/api/comments/{id:[0-9]+}/status", adminOnly(http.HandlerFunc(handler.ModerateComment))).Methods(http.MethodPatch)
	router.HandleFunc("/api/comments/{id:[0-9]+}", handler.DeleteComment).Methods(http.MethodDelete)

	// media
	router.HandleFunc("/api/posts/{id:[0-9]+}/media", handler.GetPostMedia).Methods(http.MethodGet)
	router.HandleFunc("/api/posts/{id:[0-9]+}/media", handler.UploadMedia).Methods(http.MethodPost)
	router.HandleFunc("/api/media/{id:[0-9]+}", handler.DeleteMedia).Methods(http.MethodDelete)

	// admin
	router.Handle("/api/stats", adminOnly(http.HandlerFunc(handler.GetStats))).Methods(http.MethodGet)

	handlerChain := middleware.Chain(
		router,
		middleware.TimeoutMiddleware(cfg.RequestTimeout),
		middleware.AuthMiddleware(cfg),
		middleware.CORSMiddleware,
		middleware.LoggingMiddleware(logger),
	)

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	logger.Info().Str("addr", addr).Str("db", cfg.DB.DbNAME).Msg("Сервер запущен")

	srv := &http.Server{
		Addr:         addr,
		Handler:      handlerChain,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("Ошибка запуска сервера")
	}
}
