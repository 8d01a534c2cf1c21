package predict

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumeshhesums/ml-deployment-platform/internal/app_errors"
	"github.com/sumeshhesums/ml-deployment-platform/internal/models"
	"github.com/sumeshhesums/ml-deployment-platform/pkg/logger"
)

type fakeModelRepo struct {
	model      *models.MLModel
	usageBumps int
}

func (f *fakeModelRepo) ByID(_ context.Context, id uuid.UUID) (*models.MLModel, error) {
	if f.model == nil || f.model.ID != id {
		return nil, app_errors.ErrModelNotFound
	}
	return f.model, nil
}

func (f *fakeModelRepo) IncrementUsage(_ context.Context, _ uuid.UUID) error {
	f.usageBumps++
	return nil
}

type fakePredictionRepo struct {
	created []models.Prediction
}

func (f *fakePredictionRepo) Create(_ context.Context, p models.Prediction) (*models.Prediction, error) {
	f.created = append(f.created, p)
	return &p, nil
}

type fakeArtifactStore struct {
	content string
}

func (f *fakeArtifactStore) Fetch(_ context.Context, _ string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(f.content)), nil
}

func newTestPredictService(model *models.MLModel, artifact string) (*PredictService, *fakeModelRepo, *fakePredictionRepo) {
	repo := &fakeModelRepo{model: model}
	predictions := &fakePredictionRepo{}
	s := NewPredictService(logger.New("local"), repo, predictions, &fakeArtifactStore{content: artifact})
	return s, repo, predictions
}

func activeModel() *models.MLModel {
	return &models.MLModel{
		ID:        uuid.New(),
		Name:      "churn",
		Framework: models.FrameworkLinear,
		ObjectKey: "models/churn.json",
		IsActive:  true,
	}
}

func TestPredict_Success(t *testing.T) {
	t.Parallel()

	model := activeModel()
	s, repo, predictions := newTestPredictService(model, `{"weights":[2.0],"intercept":1.0}`)

	result, err := s.Predict(context.Background(), model.ID, uuid.New(), Input{Vector: []float64{3}})
	require.NoError(t, err)

	assert.Equal(t, model.ID, result.ModelID)
	assert.Equal(t, "churn", result.ModelName)
	require.Len(t, result.Predictions, 1)
	assert.InDelta(t, 7.0, result.Predictions[0], 1e-9)

	assert.Equal(t, 1, repo.usageBumps)
	require.Len(t, predictions.created, 1)
	assert.Equal(t, models.PredictionStatusSuccess, predictions.created[0].Status)
	assert.Equal(t, "[3]", predictions.created[0].InputData)
}

func TestPredict_UnknownModel(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestPredictService(nil, "")

	_, err := s.Predict(context.Background(), uuid.New(), uuid.New(), Input{Vector: []float64{1}})
	assert.ErrorIs(t, err, app_errors.ErrModelNotFound)
}

func TestPredict_InactiveModel(t *testing.T) {
	t.Parallel()

	model := activeModel()
	model.IsActive = false
	s, _, _ := newTestPredictService(model, `{"weights":[1.0],"intercept":0}`)

	// Inactive models are indistinguishable from missing ones.
	_, err := s.Predict(context.Background(), model.ID, uuid.New(), Input{Vector: []float64{1}})
	assert.ErrorIs(t, err, app_errors.ErrModelNotFound)
}

func TestPredict_RecordsFailure(t *testing.T) {
	t.Parallel()

	model := activeModel()
	s, repo, predictions := newTestPredictService(model, `{"weights":[1.0,2.0],"intercept":0}`)

	_, err := s.Predict(context.Background(), model.ID, uuid.New(), Input{Vector: []float64{1}})
	require.ErrorIs(t, err, app_errors.ErrBadInput)

	// A failed run is still recorded, but does not count as usage.
	require.Len(t, predictions.created, 1)
	assert.Equal(t, models.PredictionStatusError, predictions.created[0].Status)
	assert.NotEmpty(t, predictions.created[0].ErrorMessage)
	assert.Equal(t, 0, repo.usageBumps)
}
