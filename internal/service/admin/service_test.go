package admin

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumeshhesums/ml-deployment-platform/internal/models"
	"github.com/sumeshhesums/ml-deployment-platform/internal/storage/postgres"
	"github.com/sumeshhesums/ml-deployment-platform/pkg/logger"
)

type fakeUserRepo struct {
	users       []models.User
	countCalls  int
	total       int64
	active      int64
	toggledTo   *bool
	toggledUser uuid.UUID
}

func (f *fakeUserRepo) ListUsers(_ context.Context, _, _ int) ([]models.User, error) {
	return f.users, nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, id uuid.UUID, active bool) (*models.User, error) {
	f.toggledUser = id
	f.toggledTo = &active
	return &models.User{ID: id, IsActive: active}, nil
}

func (f *fakeUserRepo) CountUsers(_ context.Context) (int64, int64, error) {
	f.countCalls++
	return f.total, f.active, nil
}

type fakeModelRepo struct {
	countCalls       int
	totalModels      int64
	totalPredictions int64
}

func (f *fakeModelRepo) CountModels(_ context.Context) (int64, int64, error) {
	f.countCalls++
	return f.totalModels, f.totalPredictions, nil
}

type fakePredictionRepo struct {
	daily        []postgres.DailyCount
	avgLatency   float64
	statusCounts map[string]int64
}

func (f *fakePredictionRepo) AnalyticsSince(_ context.Context, _ time.Time) ([]postgres.DailyCount, float64, map[string]int64, error) {
	return f.daily, f.avgLatency, f.statusCounts, nil
}

type fakeAuditRepo struct {
	logs []models.AuditLog
}

func (f *fakeAuditRepo) List(_ context.Context, _ *uuid.UUID, _ string, _, _ int) ([]models.AuditLog, error) {
	return f.logs, nil
}

type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func newTestAdminService(users *fakeUserRepo, modelRepo *fakeModelRepo, predictions *fakePredictionRepo, cache StatsCache) *AdminService {
	return NewAdminService(logger.New("local"), users, modelRepo, predictions, &fakeAuditRepo{}, cache)
}

func TestSystemStats(t *testing.T) {
	t.Parallel()

	users := &fakeUserRepo{total: 10, active: 7}
	modelRepo := &fakeModelRepo{totalModels: 4, totalPredictions: 120}
	s := newTestAdminService(users, modelRepo, &fakePredictionRepo{}, nil)

	stats, err := s.SystemStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalUsers)
	assert.Equal(t, int64(7), stats.ActiveUsers)
	assert.Equal(t, int64(4), stats.TotalModels)
	assert.Equal(t, int64(120), stats.TotalPredictions)
}

func TestSystemStats_Cached(t *testing.T) {
	t.Parallel()

	users := &fakeUserRepo{total: 10, active: 7}
	modelRepo := &fakeModelRepo{totalModels: 4}
	s := newTestAdminService(users, modelRepo, &fakePredictionRepo{}, newMemCache())

	_, err := s.SystemStats(context.Background())
	require.NoError(t, err)
	cached, err := s.SystemStats(context.Background())
	require.NoError(t, err)

	// The second read must come from the cache, not the repos.
	assert.Equal(t, int64(10), cached.TotalUsers)
	assert.Equal(t, 1, users.countCalls)
	assert.Equal(t, 1, modelRepo.countCalls)
}

func TestAnalytics(t *testing.T) {
	t.Parallel()

	predictions := &fakePredictionRepo{
		daily: []postgres.DailyCount{
			{Day: "2026-08-27", Count: 30},
			{Day: "2026-08-28", Count: 70},
		},
		avgLatency:   0.125,
		statusCounts: map[string]int64{models.PredictionStatusSuccess: 90, models.PredictionStatusError: 10},
	}
	s := newTestAdminService(&fakeUserRepo{}, &fakeModelRepo{}, predictions, nil)

	analytics, err := s.Analytics(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(100), analytics.TotalPredictions)
	assert.Equal(t, int64(70), analytics.DailyPredictions["2026-08-28"])
	assert.InDelta(t, 0.125, analytics.AvgLatency, 1e-9)
	assert.InDelta(t, 90.0, analytics.SuccessRate, 1e-9)
}

func TestAnalytics_Empty(t *testing.T) {
	t.Parallel()

	s := newTestAdminService(&fakeUserRepo{}, &fakeModelRepo{}, &fakePredictionRepo{statusCounts: map[string]int64{}}, nil)

	analytics, err := s.Analytics(context.Background(), 7)
	require.NoError(t, err)
	assert.Zero(t, analytics.TotalPredictions)
	assert.Zero(t, analytics.SuccessRate)
}

func TestSetUserActive(t *testing.T) {
	t.Parallel()

	users := &fakeUserRepo{}
	s := newTestAdminService(users, &fakeModelRepo{}, &fakePredictionRepo{}, nil)
	id := uuid.New()

	user, err := s.SetUserActive(context.Background(), id, false)
	require.NoError(t, err)
	assert.False(t, user.IsActive)
	assert.Equal(t, id, users.toggledUser)
	require.NotNil(t, users.toggledTo)
	assert.False(t, *users.toggledTo)
}
