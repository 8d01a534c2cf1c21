package predict

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/sumeshhesums/ml-deployment-platform/internal/app_errors"
	"github.com/sumeshhesums/ml-deployment-platform/internal/models"
	"github.com/sumeshhesums/ml-deployment-platform/pkg/logger"
)

type ModelRepo interface {
	ByID(ctx context.Context, id uuid.UUID) (*models.MLModel, error)
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}

type PredictionRepo interface {
	Create(ctx context.Context, p models.Prediction) (*models.Prediction, error)
}

type ArtifactStore interface {
	Fetch(ctx context.Context, objectKey string) (io.ReadCloser, error)
}

type PredictService struct {
	log         logger.Log
	repo        ModelRepo
	predictions PredictionRepo
	artifacts   ArtifactStore
}

func NewPredictService(l logger.Log, repo ModelRepo, predictions PredictionRepo, artifacts ArtifactStore) *PredictService {
	return &PredictService{
		log:         l,
		repo:        repo,
		predictions: predictions,
		artifacts:   artifacts,
	}
}

// Predict resolves an active model, scores the input against its artifact,
// and records the outcome either way. Any user may invoke any active model,
// as ownership gates management, not inference.
func (s *PredictService) Predict(ctx context.Context, modelID, userID uuid.UUID, in Input) (*models.PredictionResult, error) {
	model, err := s.repo.ByID(ctx, modelID)
	if err != nil {
		return nil, err
	}
	if !model.IsActive {
		return nil, app_errors.ErrModelNotFound
	}

	start := time.Now()

	reader, err := s.artifacts.Fetch(ctx, model.ObjectKey)
	if err != nil {
		s.record(ctx, model, userID, in, 0, time.Since(start), err)
		return nil, err
	}
	defer reader.Close()

	output, err := Evaluate(model.Framework, reader, in)
	latency := time.Since(start)
	if err != nil {
		s.record(ctx, model, userID, in, 0, latency, err)
		return nil, err
	}

	s.record(ctx, model, userID, in, output, latency, nil)
	if err := s.repo.IncrementUsage(ctx, model.ID); err != nil {
		s.log.ErrorErr("failed to bump usage count", err)
	}

	return &models.PredictionResult{
		ModelID:     model.ID,
		ModelName:   model.Name,
		Predictions: []float64{output},
		Latency:     latency.Seconds(),
		Timestamp:   time.Now(),
	}, nil
}

func (s *PredictService) record(ctx context.Context, model *models.MLModel, userID uuid.UUID, in Input, output float64, latency time.Duration, evalErr error) {
	p := models.Prediction{
		ModelID:   model.ID,
		UserID:    userID,
		InputData: encodeInput(in),
		Latency:   latency.Seconds(),
		Status:    models.PredictionStatusSuccess,
	}
	if evalErr != nil {
		p.Status = models.PredictionStatusError
		p.ErrorMessage = evalErr.Error()
	} else {
		out, _ := json.Marshal([]float64{output})
		p.OutputData = string(out)
	}
	if _, err := s.predictions.Create(ctx, p); err != nil {
		s.log.ErrorErr("failed to record prediction", err)
	}
}

func encodeInput(in Input) string {
	var raw []byte
	if in.Vector != nil {
		raw, _ = json.Marshal(in.Vector)
	} else {
		raw, _ = json.Marshal(in.Features)
	}
	return string(raw)
}
