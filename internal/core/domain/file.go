package domain

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// FileRecord is the durable record of a stored file, created once the
// backend confirms the bytes are in place.
type FileRecord struct {
	ID           uuid.UUID
	Name         string
	MimeType     string
	Size         int64
	RoomID       uuid.UUID
	ParentID     *uuid.UUID
	UploadedByID uuid.UUID
	StorageID    string
	StorageKey   string
	Metadata     map[string]string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// VersionRecord is one stored version of a file.
type VersionRecord struct {
	ID           uuid.UUID
	FileID       uuid.UUID
	Size         int64
	StorageKey   string
	UploadedByID uuid.UUID
	CreatedAt    time.Time
}

// NewFile carries the fields needed to materialize a FileRecord. ID is
// assigned when the upload begins so the durable record matches the file id
// already embedded in the storage key and published in progress events; a
// zero ID lets the registrar mint one.
type NewFile struct {
	ID           uuid.UUID
	Name         string
	MimeType     string
	Size         int64
	RoomID       uuid.UUID
	ParentID     *uuid.UUID
	UploadedByID uuid.UUID
	StorageID    string
	StorageKey   string
	Metadata     map[string]string
}

// NewVersion carries the fields needed to materialize a VersionRecord.
type NewVersion struct {
	FileID       uuid.UUID
	Size         int64
	StorageKey   string
	UploadedByID uuid.UUID
}

// StorageAccount identifies one configured backend account for a room.
type StorageAccount struct {
	ID       string
	Provider string
	IsActive bool
}

// SignedURLOperation selects what a single-shot signed URL allows.
type SignedURLOperation string

const (
	SignedURLRead  SignedURLOperation = "read"
	SignedURLWrite SignedURLOperation = "write"
)

// SignedURLOptions configures single-shot signed URL issuance.
type SignedURLOptions struct {
	Operation   SignedURLOperation
	ExpiresIn   time.Duration
	ContentType string
}

// UploadOptions configures a backend-native upload context.
type UploadOptions struct {
	ContentType string
	Metadata    map[string]string
}

// ByteRange is a half-open read range; Length <= 0 reads to the end.
type ByteRange struct {
	Offset int64
	Length int64
}

// ObjectInfo is backend-reported metadata for a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// ListOptions configures metadata-plane listing.
type ListOptions struct {
	MaxKeys int
	Marker  string
}

// StorageStats is backend-reported usage.
type StorageStats struct {
	ObjectCount int64
	TotalBytes  int64
}

// FileContent couples a reader with the length the backend reported.
type FileContent struct {
	Body   io.ReadCloser
	Length int64
}
