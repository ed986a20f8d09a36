package domain

import (
	"time"

	"github.com/google/uuid"
)

// UploadEventType is the kind of progress event emitted by the orchestrator
type UploadEventType string

const (
	EventTypeUpload UploadEventType = "upload"
)

// UploadEvent is emitted after each part completion and at every terminal
// transition. Delivery is best-effort; a failed publish never fails the
// operation that produced it.
type UploadEvent struct {
	UploadID         uuid.UUID       `json:"upload_id"`
	FileID           uuid.UUID       `json:"file_id"`
	Type             UploadEventType `json:"type"`
	Status           UploadStatus    `json:"status"`
	Progress         float64         `json:"progress"`
	BytesTransferred int64           `json:"bytes_transferred"`
	TotalBytes       int64           `json:"total_bytes"`
	OccurredAt       time.Time       `json:"occurred_at"`
}
