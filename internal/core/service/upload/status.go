package upload

import (
	"context"

	"roomfiles/internal/core/domain"

	"github.com/google/uuid"
)

// Status is a pure read of the session's progress.
func (u *uploadService) Status(ctx context.Context, uploadID uuid.UUID) (*domain.UploadProgress, error) {
	session, err := u.store.Get(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	return progressOf(session), nil
}
