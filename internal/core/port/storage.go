package port

import (
	"context"
	"io"
	"time"

	"roomfiles/internal/core/domain"

	"github.com/google/uuid"
)

// StorageProvider is the uniform contract over storage backends whose native
// upload protocols differ. Explicit-multipart backends (S3 family) implement
// every call against a real API; session-style backends (Graph family) return
// the session URL from PartUploadURL for every part and treat
// CompleteMultipartUpload as a local no-op.
type StorageProvider interface {
	// Name identifies the backend family in logs and provider errors.
	Name() string

	// Capabilities returns the backend's capability envelope. Pure, no I/O.
	Capabilities() domain.ProviderCapabilities

	// CreateMultipartUpload opens a backend-native upload context for key and
	// returns the provider-visible session handle.
	CreateMultipartUpload(ctx context.Context, key string, opts domain.UploadOptions) (string, error)

	// PartUploadURL returns a URL the caller PUTs exactly contentLength bytes
	// to for partNumber. Safe to call repeatedly for the same part.
	PartUploadURL(ctx context.Context, key string, handle string, partNumber int, contentLength int64) (string, error)

	// CompleteMultipartUpload finalizes the upload. Parts must be in strictly
	// ascending part-number order with no duplicates.
	CompleteMultipartUpload(ctx context.Context, key string, handle string, parts []domain.UploadPart) error

	// AbortMultipartUpload releases backend-held resources for the upload.
	AbortMultipartUpload(ctx context.Context, key string, handle string) error

	// SignedURL issues a single-shot signed URL for the small-file fast path.
	SignedURL(ctx context.Context, key string, opts domain.SignedURLOptions) (string, *time.Time, error)

	// FileContent reads an object, optionally a byte range of it.
	FileContent(ctx context.Context, key string, rng *domain.ByteRange) (io.ReadCloser, error)

	// FileMetadata returns backend-reported metadata for key.
	FileMetadata(ctx context.Context, key string) (*domain.ObjectInfo, error)

	// ListFiles lists objects under prefix and returns the next marker.
	ListFiles(ctx context.Context, prefix string, opts domain.ListOptions) ([]domain.ObjectInfo, string, error)

	// DeleteFile removes an object.
	DeleteFile(ctx context.Context, key string) error

	// StorageStats returns backend usage.
	StorageStats(ctx context.Context) (*domain.StorageStats, error)
}

// StorageAccountResolver returns the provider and account to use for an
// upload. An empty accountID selects the room's default account.
type StorageAccountResolver interface {
	Resolve(ctx context.Context, roomID uuid.UUID, accountID string) (StorageProvider, *domain.StorageAccount, error)
}
