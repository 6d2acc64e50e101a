package app

import (
	"github.com/rs/zerolog"

	"newsroomCMS/internal/config"
	"newsroomCMS/internal/database"
	"newsroomCMS/internal/repository"
	"newsroomCMS/internal/service"
	"newsroomCMS/internal/storage"
)

// App собирает все зависимости сервиса: БД, объектное хранилище,
// кеш OTP, репозитории и сервисы
func App(cfg *config.Config, logger zerolog.Logger) (*database.DB, *repository.Repository, *service.Service, error) {
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := storage.NewMinIOClient(cfg)
	if err != nil {
		db.CloseDB()
		return nil, nil, nil, err
	}

	otp, err := service.NewOTPStore()
	if err != nil {
		db.CloseDB()
		return nil, nil, nil, err
	}

	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, cfg, store, otp, service.NewLogMailer(logger), logger)

	return db, repo, services, nil
}
