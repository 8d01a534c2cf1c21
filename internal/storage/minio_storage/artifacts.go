package minio_storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// ArtifactStorage keeps uploaded model files in a dedicated bucket, one
// object per model, keyed by a fresh uuid so re-uploads never collide.
type ArtifactStorage struct {
	storage      *MinioStorage
	bucket       string
	presignedTTL time.Duration
}

func NewArtifactStorage(storage *MinioStorage, bucketName string, presignedTTL time.Duration) (*ArtifactStorage, error) {
	if err := storage.ensureBucket(context.Background(), bucketName); err != nil {
		return nil, err
	}
	return &ArtifactStorage{storage: storage, bucket: bucketName, presignedTTL: presignedTTL}, nil
}

func (s *ArtifactStorage) Upload(ctx context.Context, filename string, reader io.Reader, size int64) (objectKey string, err error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}

	objectKey = fmt.Sprintf("models/%s%s", uuid.New().String(), ext)

	_, err = s.storage.client.PutObject(
		ctx,
		s.bucket,
		objectKey,
		reader,
		size,
		minio.PutObjectOptions{ContentType: "application/octet-stream"},
	)
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

func (s *ArtifactStorage) Fetch(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	obj, err := s.storage.client.GetObject(ctx, s.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (s *ArtifactStorage) DownloadURL(ctx context.Context, objectKey string) (string, error) {
	reqParams := make(url.Values)
	presignedURL, err := s.storage.client.PresignedGetObject(
		ctx,
		s.bucket,
		objectKey,
		s.presignedTTL,
		reqParams,
	)
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}

func (s *ArtifactStorage) Delete(ctx context.Context, objectKey string) error {
	return s.storage.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
}
