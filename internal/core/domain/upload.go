package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// UploadStatus represents the status of an upload session
type UploadStatus string

const (
	UploadStatusInitialized UploadStatus = "initialized"
	UploadStatusInProgress  UploadStatus = "in_progress"
	UploadStatusCompleted   UploadStatus = "completed"
	UploadStatusFailed      UploadStatus = "failed"
	UploadStatusAborted     UploadStatus = "aborted"
)

// Terminal reports whether no further transition is allowed out of the status.
func (s UploadStatus) Terminal() bool {
	switch s {
	case UploadStatusCompleted, UploadStatusFailed, UploadStatusAborted:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is a legal forward
// transition. Transitions never move backwards and never leave a terminal
// status.
func (s UploadStatus) CanTransition(next UploadStatus) bool {
	switch s {
	case UploadStatusInitialized:
		return next == UploadStatusInProgress || next == UploadStatusAborted || next == UploadStatusFailed
	case UploadStatusInProgress:
		return next == UploadStatusCompleted || next == UploadStatusAborted || next == UploadStatusFailed
	}
	return false
}

// UploadPart is a completed chunk of a multipart upload, proven by the eTag
// the backend returned when the bytes were received.
type UploadPart struct {
	PartNumber int
	ETag       string
}

// UploadSession is one in-flight logical upload. Sessions are mutated only
// through the session store's Update so that concurrent part completions for
// the same upload never lose writes.
type UploadSession struct {
	ID               uuid.UUID
	FileID           uuid.UUID
	ProviderHandle   string
	FileName         string
	MimeType         string
	TotalSize        int64
	RoomID           uuid.UUID
	UserID           uuid.UUID
	StorageAccountID string
	StorageKey       string
	PartSize         int64
	TotalParts       int
	Parts            map[int]UploadPart
	Status           UploadStatus
	Finalizing       bool
	Result           *FileRecord
	Metadata         map[string]string
	StartedAt        time.Time
	UpdatedAt        time.Time
}

// CompletedParts returns how many distinct part numbers have been completed.
func (s *UploadSession) CompletedParts() int {
	return len(s.Parts)
}

// BytesTransferred estimates the bytes confirmed stored so far.
func (s *UploadSession) BytesTransferred() int64 {
	n := int64(len(s.Parts)) * s.PartSize
	if n > s.TotalSize {
		n = s.TotalSize
	}
	return n
}

// Progress returns the completion ratio in [0, 1].
func (s *UploadSession) Progress() float64 {
	if s.TotalParts == 0 {
		return 0
	}
	return float64(len(s.Parts)) / float64(s.TotalParts)
}

// Complete reports whether every part number from 1 to TotalParts has been
// completed, with no gaps and no extras.
func (s *UploadSession) Complete() bool {
	if len(s.Parts) != s.TotalParts {
		return false
	}
	for n := 1; n <= s.TotalParts; n++ {
		if _, ok := s.Parts[n]; !ok {
			return false
		}
	}
	return true
}

// PartsAscending returns the completed parts sorted by part number. Explicit
// multipart backends reject finalize calls with out-of-order part lists.
func (s *UploadSession) PartsAscending() []UploadPart {
	parts := make([]UploadPart, 0, len(s.Parts))
	for _, p := range s.Parts {
		parts = append(parts, p)
	}
	sort.Slice(parts, func(i, j int) bool {
		return parts[i].PartNumber < parts[j].PartNumber
	})
	return parts
}

// UploadProgress is the read-only view of a session returned by status queries.
type UploadProgress struct {
	UploadID         uuid.UUID
	Status           UploadStatus
	TotalParts       int
	CompletedParts   int
	Progress         float64
	BytesTransferred int64
	TotalBytes       int64
}

// BeginUpload carries the caller's request to start a new multipart upload.
type BeginUpload struct {
	FileName         string
	MimeType         string
	TotalSize        int64
	RoomID           uuid.UUID
	UserID           uuid.UUID
	StorageAccountID string
	Metadata         map[string]string
}

// UploadTicket is returned by Begin: the handle and part plan the caller
// uses to drive the rest of the upload.
type UploadTicket struct {
	UploadID   uuid.UUID
	PartSize   int64
	TotalParts int
}
