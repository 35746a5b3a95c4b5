// Package storage provides the MinIO-backed object store for site imagery:
// retreat galleries, testimonial photos, and branding assets.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"retiros_backend/platform/apperr"
	"retiros_backend/platform/config"
)

// MaxImageSize bounds a single upload.
const MaxImageSize = 10 << 20 // 10 MiB

// allowedImageTypes lists the MIME types accepted for site imagery.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Uploader stores an image and returns its public URL.
type Uploader interface {
	UploadImage(ctx context.Context, folder, fileName, contentType string, reader io.Reader, size int64) (UploadedImage, error)
	DeleteImage(ctx context.Context, fileKey string) error
}

// UploadedImage describes a stored object.
type UploadedImage struct {
	FileKey string `json:"fileKey"`
	URL     string `json:"url"`
}

// MinIOService implements Uploader using MinIO.
type MinIOService struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// NewMinIOService creates a storage service from configuration.
func NewMinIOService(cfg config.StorageConfig) (*MinIOService, error) {
	if !cfg.IsStorageEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("create MinIO client: %w", err)
	}

	publicBase := strings.TrimRight(cfg.GetMinIOPublicBaseURL(), "/")
	if publicBase == "" {
		scheme := "http"
		if cfg.GetMinIOUseSSL() {
			scheme = "https"
		}
		publicBase = fmt.Sprintf("%s://%s", scheme, cfg.GetMinIOEndpoint())
	}

	return &MinIOService{
		client:        client,
		bucket:        cfg.GetImageBucket(),
		publicBaseURL: publicBase,
	}, nil
}

var _ Uploader = (*MinIOService)(nil)

// EnsureBucket creates the image bucket if it doesn't exist.
func (s *MinIOService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// UploadImage stores an image under folder with a collision-proof name and
// returns its public URL.
func (s *MinIOService) UploadImage(ctx context.Context, folder, fileName, contentType string, reader io.Reader, size int64) (UploadedImage, error) {
	if err := validateImage(contentType, size); err != nil {
		return UploadedImage{}, err
	}

	ext := path.Ext(fileName)
	baseName := strings.TrimSuffix(fileName, ext)
	uniqueFileName := fmt.Sprintf("%s_%s%s", baseName, uuid.New().String()[:8], ext)
	fileKey := filepath.ToSlash(filepath.Join(folder, uniqueFileName))

	_, err := s.client.PutObject(ctx, s.bucket, fileKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return UploadedImage{}, fmt.Errorf("upload %s: %w", fileKey, err)
	}

	return UploadedImage{
		FileKey: fileKey,
		URL:     fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, fileKey),
	}, nil
}

// DeleteImage removes a stored object.
func (s *MinIOService) DeleteImage(ctx context.Context, fileKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, fileKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", fileKey, err)
	}
	return nil
}

func validateImage(contentType string, size int64) error {
	normalized := strings.TrimSpace(strings.ToLower(strings.Split(contentType, ";")[0]))
	if !allowedImageTypes[normalized] {
		return apperr.Validation(fmt.Sprintf("content type %q is not allowed", contentType))
	}
	if size <= 0 {
		return apperr.Validation("file is empty")
	}
	if size > MaxImageSize {
		return apperr.Validation("file exceeds the 10MB limit")
	}
	return nil
}
