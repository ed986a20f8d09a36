package upload

import (
	"context"
	"fmt"
	"time"

	"roomfiles/internal/core/domain"

	"github.com/google/uuid"
)

// Finalize completes the upload at the backend and materializes the durable
// file record. Once a session is completed the stored record is returned on
// every subsequent call without touching the provider or the registrar, so a
// retried client request cannot produce duplicate file records. The claim
// below makes the same guarantee hold for concurrent duplicates: only the
// caller that wins the claim reaches the provider.
func (u *uploadService) Finalize(ctx context.Context, uploadID uuid.UUID) (*domain.FileRecord, error) {
	session, err := u.store.Update(ctx, uploadID, func(s *domain.UploadSession) error {
		if s.Status == domain.UploadStatusCompleted {
			return nil
		}
		if s.Status != domain.UploadStatusInProgress {
			return fmt.Errorf("%w: cannot finalize %s upload", domain.ErrInvalidSessionState, s.Status)
		}
		if !s.Complete() {
			return fmt.Errorf("%w: %d of %d parts completed",
				domain.ErrUploadIncomplete, s.CompletedParts(), s.TotalParts)
		}
		if s.Finalizing {
			return fmt.Errorf("%w: finalize already in progress", domain.ErrInvalidSessionState)
		}
		s.Finalizing = true
		s.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if session.Status == domain.UploadStatusCompleted {
		if session.Result == nil {
			return nil, fmt.Errorf("%w: completed session has no file record", domain.ErrInvalidSessionState)
		}
		return session.Result, nil
	}

	provider, account, err := u.resolver.Resolve(ctx, session.RoomID, session.StorageAccountID)
	if err != nil {
		u.releaseFinalizeClaim(ctx, uploadID)
		return nil, err
	}

	if err := provider.CompleteMultipartUpload(ctx, session.StorageKey, session.ProviderHandle, session.PartsAscending()); err != nil {
		u.fail(ctx, uploadID)
		return nil, domain.NewProviderError(provider.Name(), "complete multipart upload", err)
	}

	record, err := u.registrar.Create(ctx, domain.NewFile{
		ID:           session.FileID,
		Name:         session.FileName,
		MimeType:     session.MimeType,
		Size:         session.TotalSize,
		RoomID:       session.RoomID,
		UploadedByID: session.UserID,
		StorageID:    account.ID,
		StorageKey:   session.StorageKey,
		Metadata:     session.Metadata,
	})
	if err != nil {
		u.fail(ctx, uploadID)
		return nil, err
	}

	updated, err := u.store.Update(ctx, uploadID, func(s *domain.UploadSession) error {
		if s.Status == domain.UploadStatusCompleted {
			return nil
		}
		if !s.Status.CanTransition(domain.UploadStatusCompleted) {
			return fmt.Errorf("%w: cannot complete %s upload", domain.ErrInvalidSessionState, s.Status)
		}
		s.Status = domain.UploadStatusCompleted
		s.Finalizing = false
		s.Result = record
		s.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	uploadsCompleted.Inc()
	u.publishProgress(ctx, updated)
	u.logger.Info("upload finalized",
		"upload_id", session.ID,
		"file_id", record.ID,
		"size", session.TotalSize,
	)
	return record, nil
}

// releaseFinalizeClaim hands the claim back after a failure that left the
// session in_progress, so a later retry can finalize.
func (u *uploadService) releaseFinalizeClaim(ctx context.Context, uploadID uuid.UUID) {
	if _, err := u.store.Update(ctx, uploadID, func(s *domain.UploadSession) error {
		s.Finalizing = false
		return nil
	}); err != nil {
		u.logger.Error("failed to release finalize claim", "upload_id", uploadID, "error", err)
	}
}
