package port

import (
	"context"
	"time"

	"roomfiles/internal/core/domain"

	"github.com/google/uuid"
)

// SessionStore holds in-flight upload sessions. Update runs fn with exclusive
// access to the session so concurrent part completions for the same upload
// never lose writes; operations on distinct sessions do not serialize.
type SessionStore interface {
	Create(ctx context.Context, session *domain.UploadSession) error
	Get(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error)

	// Update applies fn to the stored session and commits the result. If fn
	// returns an error nothing is committed and the error is returned. The
	// committed snapshot is returned on success.
	Update(ctx context.Context, id uuid.UUID, fn func(*domain.UploadSession) error) (*domain.UploadSession, error)

	Delete(ctx context.Context, id uuid.UUID) error

	// Stale returns sessions eligible for sweeping: terminal sessions last
	// updated before terminalBefore, and non-terminal sessions idle since
	// before idleBefore.
	Stale(ctx context.Context, terminalBefore, idleBefore time.Time) ([]domain.UploadSession, error)
}
