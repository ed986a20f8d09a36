package upload

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"roomfiles/internal/core/domain"
	"roomfiles/internal/core/port"

	"github.com/google/uuid"
)

type uploadService struct {
	store     port.SessionStore
	resolver  port.StorageAccountResolver
	registrar port.FileRegistrar
	sink      port.ProgressSink
	logger    *slog.Logger
}

// NewUploadService creates the multipart upload orchestrator
func NewUploadService(
	store port.SessionStore,
	resolver port.StorageAccountResolver,
	registrar port.FileRegistrar,
	sink port.ProgressSink,
	logger *slog.Logger,
) port.UploadService {
	return &uploadService{
		store:     store,
		resolver:  resolver,
		registrar: registrar,
		sink:      sink,
		logger:    logger,
	}
}

// storageKey derives a collision-resistant destination path. The generated
// file id keeps concurrent uploads of the same name in one room apart.
func storageKey(roomID, fileID uuid.UUID, fileName string) string {
	return fmt.Sprintf("rooms/%s/%s/%s", roomID, fileID, filepath.Base(fileName))
}

// signPartURL issues the per-part signed URL with a single retry. URL
// issuance has no backend side effects, so a second attempt is always safe.
func (u *uploadService) signPartURL(ctx context.Context, provider port.StorageProvider, session *domain.UploadSession, partNumber int, contentLength int64) (string, error) {
	url, err := provider.PartUploadURL(ctx, session.StorageKey, session.ProviderHandle, partNumber, contentLength)
	if err == nil {
		return url, nil
	}
	if ctx.Err() != nil {
		return "", err
	}
	return provider.PartUploadURL(ctx, session.StorageKey, session.ProviderHandle, partNumber, contentLength)
}

func progressOf(s *domain.UploadSession) *domain.UploadProgress {
	return &domain.UploadProgress{
		UploadID:         s.ID,
		Status:           s.Status,
		TotalParts:       s.TotalParts,
		CompletedParts:   s.CompletedParts(),
		Progress:         s.Progress(),
		BytesTransferred: s.BytesTransferred(),
		TotalBytes:       s.TotalSize,
	}
}

func (u *uploadService) publishProgress(ctx context.Context, s *domain.UploadSession) {
	if u.sink == nil {
		return
	}
	event := domain.UploadEvent{
		UploadID:         s.ID,
		FileID:           s.FileID,
		Type:             domain.EventTypeUpload,
		Status:           s.Status,
		Progress:         s.Progress(),
		BytesTransferred: s.BytesTransferred(),
		TotalBytes:       s.TotalSize,
		OccurredAt:       time.Now(),
	}
	if err := u.sink.Publish(ctx, event); err != nil {
		u.logger.Warn("failed to publish upload event",
			"upload_id", s.ID,
			"status", s.Status,
			"error", err,
		)
	}
}

// fail moves the session to failed best-effort after a backend error during
// finalize, so a broken upload does not stay stuck in_progress forever.
func (u *uploadService) fail(ctx context.Context, uploadID uuid.UUID) {
	session, err := u.store.Update(ctx, uploadID, func(s *domain.UploadSession) error {
		if !s.Status.CanTransition(domain.UploadStatusFailed) {
			return fmt.Errorf("%w: cannot fail %s upload", domain.ErrInvalidSessionState, s.Status)
		}
		s.Status = domain.UploadStatusFailed
		s.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		u.logger.Error("failed to mark upload session failed", "upload_id", uploadID, "error", err)
		return
	}
	uploadsFailed.Inc()
	u.publishProgress(ctx, session)
}
