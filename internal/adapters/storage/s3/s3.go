// Package s3 implements the StorageProvider contract for S3-compatible
// backends using the minio Core API. This is the explicit-multipart family:
// every part gets its own presigned URL and completion is a real backend call.
package s3

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"roomfiles/internal/config"
	"roomfiles/internal/core/domain"
	"roomfiles/internal/core/port"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const providerName = "s3"

var capabilities = domain.ProviderCapabilities{
	SupportsMultipartUpload:      true,
	MinimumPartSize:              5 << 20,  // 5 MiB
	MaximumPartSize:              5 << 30,  // 5 GiB
	MaximumPartCount:             10000,
	SupportsRangeRequests:        true,
	SupportsServerSideEncryption: true,
	MaximumFileSize:              5 << 40, // 5 TiB
}

// Adapter is a StorageProvider for S3-compatible object stores
type Adapter struct {
	client *minio.Client
	core   *minio.Core
	config config.S3Config
	logger *slog.Logger
}

// NewAdapter connects to the backend and ensures the bucket exists
func NewAdapter(ctx context.Context, cfg config.S3Config, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Adapter{
		client: client,
		core:   &minio.Core{Client: client},
		config: cfg,
		logger: logger,
	}, nil
}

var _ port.StorageProvider = (*Adapter)(nil)

// Name identifies the backend family
func (a *Adapter) Name() string {
	return providerName
}

// Capabilities returns the S3 multipart limits
func (a *Adapter) Capabilities() domain.ProviderCapabilities {
	return capabilities
}

// CreateMultipartUpload opens a backend upload context and returns its upload id
func (a *Adapter) CreateMultipartUpload(ctx context.Context, key string, opts domain.UploadOptions) (string, error) {
	uploadID, err := a.core.NewMultipartUpload(ctx, a.config.BucketName, key, minio.PutObjectOptions{
		ContentType:  opts.ContentType,
		UserMetadata: opts.Metadata,
	})
	if err != nil {
		return "", fmt.Errorf("failed to init multipart upload: %w", err)
	}
	return uploadID, nil
}

// PartUploadURL returns a distinct presigned PUT URL for the part
func (a *Adapter) PartUploadURL(ctx context.Context, key string, handle string, partNumber int, contentLength int64) (string, error) {
	reqParams := make(url.Values)
	reqParams.Set("partNumber", fmt.Sprintf("%d", partNumber))
	reqParams.Set("uploadId", handle)

	presignedURL, err := a.core.PresignHeader(ctx, http.MethodPut, a.config.BucketName, key, a.config.PartPresignedDuration, reqParams, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL for part: %w", err)
	}
	return presignedURL.String(), nil
}

// CompleteMultipartUpload finalizes the upload listing parts in ascending order
func (a *Adapter) CompleteMultipartUpload(ctx context.Context, key string, handle string, parts []domain.UploadPart) error {
	sort.Slice(parts, func(i, j int) bool {
		return parts[i].PartNumber < parts[j].PartNumber
	})

	completeParts := make([]minio.CompletePart, 0, len(parts))
	for _, part := range parts {
		completeParts = append(completeParts, minio.CompletePart{
			PartNumber: part.PartNumber,
			ETag:       part.ETag,
		})
	}

	_, err := a.core.CompleteMultipartUpload(ctx, a.config.BucketName, key, handle, completeParts, minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to complete multipart upload: %w", err)
	}
	return nil
}

// AbortMultipartUpload releases the backend-held upload context
func (a *Adapter) AbortMultipartUpload(ctx context.Context, key string, handle string) error {
	if err := a.core.AbortMultipartUpload(ctx, a.config.BucketName, key, handle); err != nil {
		return fmt.Errorf("failed to abort multipart upload: %w", err)
	}

	a.logger.Info("multipart upload aborted",
		slog.String("key", key),
		slog.String("uploadID", handle))
	return nil
}

// SignedURL issues a single-shot presigned URL for the small-file fast path
func (a *Adapter) SignedURL(ctx context.Context, key string, opts domain.SignedURLOptions) (string, *time.Time, error) {
	expiresIn := opts.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = a.config.SimplePresignedDuration
	}

	var presignedURL *url.URL
	var err error
	switch opts.Operation {
	case domain.SignedURLWrite:
		headers := make(http.Header)
		if opts.ContentType != "" {
			headers.Set("Content-Type", opts.ContentType)
		}
		presignedURL, err = a.client.PresignHeader(ctx, http.MethodPut, a.config.BucketName, key, expiresIn, nil, headers)
	default:
		presignedURL, err = a.client.PresignedGetObject(ctx, a.config.BucketName, key, expiresIn, nil)
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	expiresAt := time.Now().Add(expiresIn)
	return presignedURL.String(), &expiresAt, nil
}

// applyRange maps a ByteRange onto minio's range options. A zero range reads
// the whole object without a Range header; a zero length with a positive
// offset reads from the offset to the end.
func applyRange(opts *minio.GetObjectOptions, rng *domain.ByteRange) error {
	if rng == nil {
		return nil
	}
	switch {
	case rng.Length > 0:
		return opts.SetRange(rng.Offset, rng.Offset+rng.Length-1)
	case rng.Offset > 0:
		return opts.SetRange(rng.Offset, 0)
	}
	return nil
}

// FileContent reads an object, optionally a byte range of it
func (a *Adapter) FileContent(ctx context.Context, key string, rng *domain.ByteRange) (io.ReadCloser, error) {
	if err := capabilities.CheckRange(rng); err != nil {
		return nil, err
	}
	opts := minio.GetObjectOptions{}
	if err := applyRange(&opts, rng); err != nil {
		return nil, fmt.Errorf("failed to set range: %w", err)
	}

	object, err := a.client.GetObject(ctx, a.config.BucketName, key, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return object, nil
}

// FileMetadata returns backend-reported metadata for the object
func (a *Adapter) FileMetadata(ctx context.Context, key string) (*domain.ObjectInfo, error) {
	info, err := a.client.StatObject(ctx, a.config.BucketName, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object info: %w", err)
	}
	return &domain.ObjectInfo{
		Key:          info.Key,
		Size:         info.Size,
		ETag:         info.ETag,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}, nil
}

// ListFiles lists objects under prefix and returns the next marker
func (a *Adapter) ListFiles(ctx context.Context, prefix string, opts domain.ListOptions) ([]domain.ObjectInfo, string, error) {
	maxKeys := opts.MaxKeys
	if maxKeys <= 0 || maxKeys > 1000 {
		maxKeys = 1000
	}

	var infos []domain.ObjectInfo
	for object := range a.client.ListObjects(ctx, a.config.BucketName, minio.ListObjectsOptions{
		Prefix:     prefix,
		Recursive:  true,
		StartAfter: opts.Marker,
		MaxKeys:    maxKeys,
	}) {
		if object.Err != nil {
			return nil, "", fmt.Errorf("failed to list objects: %w", object.Err)
		}
		infos = append(infos, domain.ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			ETag:         object.ETag,
			ContentType:  object.ContentType,
			LastModified: object.LastModified,
		})
		if len(infos) == maxKeys {
			return infos, object.Key, nil
		}
	}
	return infos, "", nil
}

// DeleteFile removes the object
func (a *Adapter) DeleteFile(ctx context.Context, key string) error {
	if err := a.client.RemoveObject(ctx, a.config.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	a.logger.Info("object deleted",
		slog.String("key", key),
		slog.String("bucket", a.config.BucketName))
	return nil
}

// StorageStats walks the bucket and totals object counts and sizes
func (a *Adapter) StorageStats(ctx context.Context) (*domain.StorageStats, error) {
	stats := &domain.StorageStats{}
	for object := range a.client.ListObjects(ctx, a.config.BucketName, minio.ListObjectsOptions{Recursive: true}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		stats.ObjectCount++
		stats.TotalBytes += object.Size
	}
	return stats, nil
}
