package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/viaplan/viaplan-api/internal/config"
)

// MinioStorage stores files in a MinIO (or S3-compatible) bucket. It is
// used instead of LocalStorage when MINIO_ENDPOINT is configured.
type MinioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinioStorage creates a MinIO-backed storage instance and ensures
// the bucket exists
func NewMinioStorage(ctx context.Context, cfg *config.Config) (*MinioStorage, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	s := &MinioStorage{client: client, bucket: cfg.MinioBucket}

	exists, err := client.BucketExists(ctx, s.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return s, nil
}

// Save uploads content and returns the object name as the relative path
func (s *MinioStorage) Save(ctx context.Context, reader io.Reader, size int64, filename, subDir string) (string, error) {
	objectName := path.Join(subDir, time.Now().Format("2006/01"), generateID()+path.Ext(filename))

	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return objectName, nil
}

// Open returns the object content for reading
func (s *MinioStorage) Open(ctx context.Context, relativePath string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, relativePath, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return obj, nil
}

// Delete removes an object
func (s *MinioStorage) Delete(ctx context.Context, relativePath string) error {
	return s.client.RemoveObject(ctx, s.bucket, relativePath, minio.RemoveObjectOptions{})
}

