package upload

import (
	"context"
	"fmt"
	"strings"
	"time"

	"roomfiles/internal/core/domain"

	"github.com/google/uuid"
)

// CompletePart records the backend's eTag for a part. A part number may be
// reported more than once across client retries; the last write wins and the
// part still counts only once toward completion.
func (u *uploadService) CompletePart(ctx context.Context, uploadID uuid.UUID, partNumber int, eTag string) (*domain.UploadProgress, error) {
	eTag = strings.Trim(eTag, "\"")
	if eTag == "" {
		return nil, fmt.Errorf("%w: part %d reported without an eTag", domain.ErrInvalidETag, partNumber)
	}

	session, err := u.store.Update(ctx, uploadID, func(s *domain.UploadSession) error {
		if s.Status != domain.UploadStatusInitialized && s.Status != domain.UploadStatusInProgress {
			return fmt.Errorf("%w: cannot complete part for %s upload", domain.ErrInvalidSessionState, s.Status)
		}
		if partNumber < 1 || partNumber > s.TotalParts {
			return fmt.Errorf("%w: %d not in [1, %d]", domain.ErrInvalidPartNumber, partNumber, s.TotalParts)
		}
		s.Parts[partNumber] = domain.UploadPart{PartNumber: partNumber, ETag: eTag}
		s.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	partsCompleted.Inc()
	u.publishProgress(ctx, session)
	return progressOf(session), nil
}
