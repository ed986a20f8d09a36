package upload

import (
	"context"
	"fmt"
	"time"

	"roomfiles/internal/core/domain"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// PartUploadURL issues the signed URL for one part. The first call moves the
// session from initialized to in_progress; repeated calls for the same part
// are side-effect free so clients can retry freely.
func (u *uploadService) PartUploadURL(ctx context.Context, uploadID uuid.UUID, partNumber int, contentLength int64) (string, error) {
	session, err := u.store.Get(ctx, uploadID)
	if err != nil {
		return "", err
	}

	if session.Status != domain.UploadStatusInitialized && session.Status != domain.UploadStatusInProgress {
		return "", fmt.Errorf("%w: cannot issue part URL for %s upload", domain.ErrInvalidSessionState, session.Status)
	}
	if partNumber < 1 || partNumber > session.TotalParts {
		return "", fmt.Errorf("%w: %d not in [1, %d]", domain.ErrInvalidPartNumber, partNumber, session.TotalParts)
	}
	if contentLength <= 0 || contentLength > session.PartSize {
		return "", fmt.Errorf("%w: %s exceeds part size %s",
			domain.ErrInvalidPartSize,
			humanize.IBytes(uint64(contentLength)),
			humanize.IBytes(uint64(session.PartSize)),
		)
	}

	provider, _, err := u.resolver.Resolve(ctx, session.RoomID, session.StorageAccountID)
	if err != nil {
		return "", err
	}

	if session.Status == domain.UploadStatusInitialized {
		session, err = u.store.Update(ctx, uploadID, func(s *domain.UploadSession) error {
			if s.Status == domain.UploadStatusInitialized {
				s.Status = domain.UploadStatusInProgress
				s.UpdatedAt = time.Now()
			}
			if s.Status != domain.UploadStatusInProgress {
				return fmt.Errorf("%w: cannot issue part URL for %s upload", domain.ErrInvalidSessionState, s.Status)
			}
			return nil
		})
		if err != nil {
			return "", err
		}
	}

	url, err := u.signPartURL(ctx, provider, session, partNumber, contentLength)
	if err != nil {
		return "", domain.NewProviderError(provider.Name(), "sign part url", err)
	}
	return url, nil
}
