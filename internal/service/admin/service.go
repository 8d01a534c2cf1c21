package admin

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/sumeshhesums/ml-deployment-platform/internal/models"
	"github.com/sumeshhesums/ml-deployment-platform/internal/storage/postgres"
	"github.com/sumeshhesums/ml-deployment-platform/pkg/logger"
)

type UserRepo interface {
	ListUsers(ctx context.Context, offset, limit int) ([]models.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.User, error)
	CountUsers(ctx context.Context) (total, active int64, err error)
}

type ModelRepo interface {
	CountModels(ctx context.Context) (total, totalPredictions int64, err error)
}

type PredictionRepo interface {
	AnalyticsSince(ctx context.Context, since time.Time) ([]postgres.DailyCount, float64, map[string]int64, error)
}

type AuditRepo interface {
	List(ctx context.Context, userID *uuid.UUID, action string, offset, limit int) ([]models.AuditLog, error)
}

// StatsCache fronts the aggregate queries with a short-TTL cache. A nil
// cache disables caching.
type StatsCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

type AdminService struct {
	log         logger.Log
	users       UserRepo
	modelRepo   ModelRepo
	predictions PredictionRepo
	audit       AuditRepo
	cache       StatsCache
}

func NewAdminService(l logger.Log, users UserRepo, modelRepo ModelRepo, predictions PredictionRepo, audit AuditRepo, cache StatsCache) *AdminService {
	return &AdminService{
		log:         l,
		users:       users,
		modelRepo:   modelRepo,
		predictions: predictions,
		audit:       audit,
		cache:       cache,
	}
}

func (s *AdminService) ListUsers(ctx context.Context, offset, limit int) ([]models.User, error) {
	return s.users.ListUsers(ctx, offset, limit)
}

func (s *AdminService) SetUserActive(ctx context.Context, id uuid.UUID, active bool) (*models.User, error) {
	return s.users.SetActive(ctx, id, active)
}

type SystemStats struct {
	TotalUsers       int64 `json:"total_users"`
	ActiveUsers      int64 `json:"active_users"`
	TotalModels      int64 `json:"total_models"`
	TotalPredictions int64 `json:"total_predictions"`
}

const statsCacheKey = "admin:stats"

func (s *AdminService) SystemStats(ctx context.Context) (*SystemStats, error) {
	var stats SystemStats
	if s.cacheGet(ctx, statsCacheKey, &stats) {
		return &stats, nil
	}

	totalUsers, activeUsers, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	totalModels, totalPredictions, err := s.modelRepo.CountModels(ctx)
	if err != nil {
		return nil, err
	}

	stats = SystemStats{
		TotalUsers:       totalUsers,
		ActiveUsers:      activeUsers,
		TotalModels:      totalModels,
		TotalPredictions: totalPredictions,
	}
	s.cacheSet(ctx, statsCacheKey, stats)
	return &stats, nil
}

type Analytics struct {
	TotalPredictions int64            `json:"total_predictions"`
	DailyPredictions map[string]int64 `json:"daily_predictions"`
	AvgLatency       float64          `json:"avg_prediction_time"`
	StatusCounts     map[string]int64 `json:"status_counts"`
	SuccessRate      float64          `json:"success_rate"`
}

func (s *AdminService) Analytics(ctx context.Context, days int) (*Analytics, error) {
	if days <= 0 {
		days = 30
	}
	cacheKey := "admin:analytics:" + strconv.Itoa(days)

	var analytics Analytics
	if s.cacheGet(ctx, cacheKey, &analytics) {
		return &analytics, nil
	}

	since := time.Now().AddDate(0, 0, -days)
	daily, avgLatency, statusCounts, err := s.predictions.AnalyticsSince(ctx, since)
	if err != nil {
		return nil, err
	}

	var total int64
	dailyMap := make(map[string]int64, len(daily))
	for _, d := range daily {
		dailyMap[d.Day] = d.Count
		total += d.Count
	}

	successRate := 0.0
	if total > 0 {
		successRate = float64(statusCounts[models.PredictionStatusSuccess]) / float64(total) * 100
	}

	analytics = Analytics{
		TotalPredictions: total,
		DailyPredictions: dailyMap,
		AvgLatency:       avgLatency,
		StatusCounts:     statusCounts,
		SuccessRate:      successRate,
	}
	s.cacheSet(ctx, cacheKey, analytics)
	return &analytics, nil
}

func (s *AdminService) AuditLogs(ctx context.Context, userID *uuid.UUID, action string, offset, limit int) ([]models.AuditLog, error) {
	return s.audit.List(ctx, userID, action, offset, limit)
}

func (s *AdminService) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.log.ErrorErr("stats cache read failed", err)
		return false
	}
	return hit
}

func (s *AdminService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.log.ErrorErr("stats cache write failed", err)
	}
}
