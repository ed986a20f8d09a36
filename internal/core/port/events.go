package port

import (
	"context"

	"roomfiles/internal/core/domain"
)

// ProgressSink receives upload progress events (nats, ...)
type ProgressSink interface {
	Publish(ctx context.Context, event domain.UploadEvent) error
}
