package registry

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"

	"github.com/sumeshhesums/ml-deployment-platform/internal/app_errors"
	"github.com/sumeshhesums/ml-deployment-platform/internal/models"
	"github.com/sumeshhesums/ml-deployment-platform/pkg/logger"
)

type ModelRepo interface {
	Create(ctx context.Context, m models.MLModel) (*models.MLModel, error)
	ByID(ctx context.Context, id uuid.UUID) (*models.MLModel, error)
	ByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.MLModel, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]models.MLModel, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, upd models.ModelUpdate) (*models.MLModel, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

type PredictionRepo interface {
	ListByModel(ctx context.Context, modelID uuid.UUID, offset, limit int) ([]models.Prediction, error)
}

type ArtifactStore interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64) (string, error)
	DownloadURL(ctx context.Context, objectKey string) (string, error)
	Delete(ctx context.Context, objectKey string) error
}

type SearchIndex interface {
	Index(ctx context.Context, model models.MLModel) error
	Update(ctx context.Context, model models.MLModel) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, ownerID uuid.UUID, text string, limit int) ([]uuid.UUID, error)
}

type RegistryService struct {
	log         logger.Log
	repo        ModelRepo
	predictions PredictionRepo
	artifacts   ArtifactStore
	search      SearchIndex
	maxSize     int64
}

func NewRegistryService(l logger.Log, repo ModelRepo, predictions PredictionRepo, artifacts ArtifactStore, search SearchIndex, maxSize int64) *RegistryService {
	return &RegistryService{
		log:         l,
		repo:        repo,
		predictions: predictions,
		artifacts:   artifacts,
		search:      search,
		maxSize:     maxSize,
	}
}

type UploadInput struct {
	Name        string
	Description string
	Framework   string
	Version     string
	Filename    string
	Reader      io.Reader
	Size        int64
	OwnerID     uuid.UUID
}

func (s *RegistryService) Upload(ctx context.Context, input UploadInput) (*models.MLModel, error) {
	if input.Size > s.maxSize {
		return nil, app_errors.ErrFileTooLarge
	}

	objectKey, err := s.artifacts.Upload(ctx, input.Filename, input.Reader, input.Size)
	if err != nil {
		return nil, err
	}

	model := models.MLModel{
		Name:        input.Name,
		Description: input.Description,
		Framework:   input.Framework,
		ModelType:   input.Framework,
		Version:     input.Version,
		ObjectKey:   objectKey,
		FileSize:    input.Size,
		OwnerID:     input.OwnerID,
	}
	created, err := s.repo.Create(ctx, model)
	if err != nil {
		// The row is the source of truth; do not leave the object orphaned.
		if delErr := s.artifacts.Delete(ctx, objectKey); delErr != nil {
			s.log.ErrorErr("failed to clean up artifact after insert failure", delErr)
		}
		return nil, err
	}

	if err := s.search.Index(ctx, *created); err != nil {
		s.log.ErrorErr("failed to index model", err)
	}
	return created, nil
}

func (s *RegistryService) List(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]models.MLModel, error) {
	return s.repo.ListByOwner(ctx, ownerID, offset, limit)
}

func (s *RegistryService) Model(ctx context.Context, id, ownerID uuid.UUID) (*models.MLModel, error) {
	return s.repo.ByIDForOwner(ctx, id, ownerID)
}

func (s *RegistryService) DownloadURL(ctx context.Context, id, ownerID uuid.UUID) (string, error) {
	model, err := s.repo.ByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return "", err
	}
	return s.artifacts.DownloadURL(ctx, model.ObjectKey)
}

func (s *RegistryService) Update(ctx context.Context, id, ownerID uuid.UUID, upd models.ModelUpdate) (*models.MLModel, error) {
	updated, err := s.repo.Update(ctx, id, ownerID, upd)
	if err != nil {
		return nil, err
	}
	if err := s.search.Update(ctx, *updated); err != nil {
		s.log.ErrorErr("failed to update model index", err)
	}
	return updated, nil
}

func (s *RegistryService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	model, err := s.repo.ByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.artifacts.Delete(ctx, model.ObjectKey); err != nil {
		s.log.ErrorErr("failed to delete artifact", err)
	}
	if err := s.search.Delete(ctx, id); err != nil {
		s.log.ErrorErr("failed to delete model index entry", err)
	}
	return nil
}

func (s *RegistryService) Search(ctx context.Context, ownerID uuid.UUID, text string, limit int) ([]models.MLModel, error) {
	ids, err := s.search.Search(ctx, ownerID, text, limit)
	if err != nil {
		return nil, err
	}
	result := make([]models.MLModel, 0, len(ids))
	for _, id := range ids {
		model, err := s.repo.ByIDForOwner(ctx, id, ownerID)
		if err != nil {
			if errors.Is(err, app_errors.ErrModelNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, *model)
	}
	return result, nil
}

// ModelStats bundles the registry row with recent usage for the stats panel.
type ModelStats struct {
	Model             *models.MLModel
	UsageCount        int64
	RecentPredictions []models.Prediction
}

func (s *RegistryService) Stats(ctx context.Context, id, ownerID uuid.UUID) (*ModelStats, error) {
	model, err := s.repo.ByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	recent, err := s.predictions.ListByModel(ctx, id, 0, 10)
	if err != nil {
		return nil, err
	}
	return &ModelStats{
		Model:             model,
		UsageCount:        model.UsageCount,
		RecentPredictions: recent,
	}, nil
}

func (s *RegistryService) History(ctx context.Context, id, ownerID uuid.UUID, offset, limit int) ([]models.Prediction, error) {
	if _, err := s.repo.ByIDForOwner(ctx, id, ownerID); err != nil {
		return nil, err
	}
	return s.predictions.ListByModel(ctx, id, offset, limit)
}
