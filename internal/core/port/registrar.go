package port

import (
	"context"

	"roomfiles/internal/core/domain"
)

// FileRegistrar persists durable file and version records. The orchestrator
// calls it only after the backend confirms completion, never speculatively.
type FileRegistrar interface {
	Create(ctx context.Context, in domain.NewFile) (*domain.FileRecord, error)
	CreateVersion(ctx context.Context, in domain.NewVersion) (*domain.VersionRecord, error)
}
