package service

import (
	"context"

	"newsroomCMS/internal/models"
	"newsroomCMS/internal/repository"
)

type StatsService interface {
	Collect(ctx context.Context) (*models.Stats, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
}

func NewStatsService(statsRepo repository.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

func (s *statsService) Collect(ctx context.Context) (*models.Stats, error) {
	return s.statsRepo.Collect(ctx)
}
