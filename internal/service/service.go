package service

import (
	"github.com/rs/zerolog"

	"newsroomCMS/internal/config"
	"newsroomCMS/internal/repository"
	"newsroomCMS/internal/storage"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Post    PostService
	Media   MediaService
	Comment CommentService
	Stats   StatsService
}

func NewService(repo *repository.Repository, cfg *config.Config, store storage.Storage, otp OTPStore, mailer Mailer, logger zerolog.Logger) *Service {
	return &Service{
		Auth:    NewAuthService(repo.User, cfg, otp, mailer),
		User:    NewUserService(repo.User),
		Post:    NewPostService(repo.Post),
		Media:   NewMediaService(repo.Media, repo.Post, store, logger),
		Comment: NewCommentService(repo.Comment, repo.Post),
		Stats:   NewStatsService(repo.Stats),
	}
}
