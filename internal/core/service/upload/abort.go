package upload

import (
	"context"
	"fmt"
	"time"

	"roomfiles/internal/core/domain"

	"github.com/google/uuid"
)

// Abort cancels the upload. Cleanup at the provider is best-effort: a failed
// backend call still moves the session to aborted so the bookkeeping cannot
// leak. Aborting an already-aborted session is a no-op.
func (u *uploadService) Abort(ctx context.Context, uploadID uuid.UUID) error {
	session, err := u.store.Get(ctx, uploadID)
	if err != nil {
		return err
	}

	switch session.Status {
	case domain.UploadStatusAborted:
		return nil
	case domain.UploadStatusCompleted, domain.UploadStatusFailed:
		return fmt.Errorf("%w: cannot abort %s upload", domain.ErrInvalidSessionState, session.Status)
	}

	provider, _, err := u.resolver.Resolve(ctx, session.RoomID, session.StorageAccountID)
	if err != nil {
		u.logger.Warn("cannot resolve provider for abort", "upload_id", uploadID, "error", err)
	} else if aErr := provider.AbortMultipartUpload(ctx, session.StorageKey, session.ProviderHandle); aErr != nil {
		u.logger.Warn("abort at provider failed", "upload_id", uploadID, "error", aErr)
	}

	updated, err := u.store.Update(ctx, uploadID, func(s *domain.UploadSession) error {
		if s.Status == domain.UploadStatusAborted {
			return nil
		}
		if !s.Status.CanTransition(domain.UploadStatusAborted) {
			return fmt.Errorf("%w: cannot abort %s upload", domain.ErrInvalidSessionState, s.Status)
		}
		s.Status = domain.UploadStatusAborted
		s.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return err
	}

	uploadsAborted.Inc()
	u.publishProgress(ctx, updated)
	u.logger.Info("upload aborted", "upload_id", uploadID)
	return nil
}
