package port

import (
	"context"

	"roomfiles/internal/core/domain"

	"github.com/google/uuid"
)

// UploadService is the multipart upload orchestrator: it owns the session
// lifecycle from Begin through Finalize or Abort. File bytes never pass
// through it; callers transfer parts directly against the signed URLs.
type UploadService interface {
	// Begin plans part sizes for the resolved provider, opens the backend
	// upload context and creates the session.
	Begin(ctx context.Context, req domain.BeginUpload) (*domain.UploadTicket, error)

	// PartUploadURL issues the signed URL for one part. Repeated calls for
	// the same part have no side effects beyond the initialized→in_progress
	// transition on first use.
	PartUploadURL(ctx context.Context, uploadID uuid.UUID, partNumber int, contentLength int64) (string, error)

	// CompletePart records the backend's eTag for a part. Last write wins
	// when a part number is reported more than once.
	CompletePart(ctx context.Context, uploadID uuid.UUID, partNumber int, eTag string) (*domain.UploadProgress, error)

	// Finalize completes the upload at the backend and materializes the
	// durable file record. Idempotent once the session is completed.
	Finalize(ctx context.Context, uploadID uuid.UUID) (*domain.FileRecord, error)

	// Abort cancels the upload and releases backend resources best-effort.
	Abort(ctx context.Context, uploadID uuid.UUID) error

	// Status is a pure read of the session's progress.
	Status(ctx context.Context, uploadID uuid.UUID) (*domain.UploadProgress, error)
}
