package natskv

import (
	"encoding/json"
	"fmt"
	"time"

	"roomfiles/internal/core/domain"

	"github.com/google/uuid"
)

type kvPart struct {
	PartNumber int    `json:"part_number"`
	ETag       string `json:"etag"`
}

type kvFileRecord struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	MimeType     string            `json:"mime_type"`
	Size         int64             `json:"size"`
	RoomID       uuid.UUID         `json:"room_id"`
	ParentID     *uuid.UUID        `json:"parent_id,omitempty"`
	UploadedByID uuid.UUID         `json:"uploaded_by_id"`
	StorageID    string            `json:"storage_id"`
	StorageKey   string            `json:"storage_key"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type kvSession struct {
	ID               uuid.UUID           `json:"id"`
	FileID           uuid.UUID           `json:"file_id"`
	ProviderHandle   string              `json:"provider_handle"`
	FileName         string              `json:"file_name"`
	MimeType         string              `json:"mime_type"`
	TotalSize        int64               `json:"total_size"`
	RoomID           uuid.UUID           `json:"room_id"`
	UserID           uuid.UUID           `json:"user_id"`
	StorageAccountID string              `json:"storage_account_id"`
	StorageKey       string              `json:"storage_key"`
	PartSize         int64               `json:"part_size"`
	TotalParts       int                 `json:"total_parts"`
	Parts            []kvPart            `json:"parts"`
	Status           domain.UploadStatus `json:"status"`
	Finalizing       bool                `json:"finalizing,omitempty"`
	Result           *kvFileRecord       `json:"result,omitempty"`
	Metadata         map[string]string   `json:"metadata,omitempty"`
	StartedAt        time.Time           `json:"started_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

func encodeSession(s *domain.UploadSession) ([]byte, error) {
	row := kvSession{
		ID:               s.ID,
		FileID:           s.FileID,
		ProviderHandle:   s.ProviderHandle,
		FileName:         s.FileName,
		MimeType:         s.MimeType,
		TotalSize:        s.TotalSize,
		RoomID:           s.RoomID,
		UserID:           s.UserID,
		StorageAccountID: s.StorageAccountID,
		StorageKey:       s.StorageKey,
		PartSize:         s.PartSize,
		TotalParts:       s.TotalParts,
		Status:           s.Status,
		Finalizing:       s.Finalizing,
		Metadata:         s.Metadata,
		StartedAt:        s.StartedAt,
		UpdatedAt:        s.UpdatedAt,
	}
	for _, p := range s.PartsAscending() {
		row.Parts = append(row.Parts, kvPart{PartNumber: p.PartNumber, ETag: p.ETag})
	}
	if s.Result != nil {
		row.Result = &kvFileRecord{
			ID:           s.Result.ID,
			Name:         s.Result.Name,
			MimeType:     s.Result.MimeType,
			Size:         s.Result.Size,
			RoomID:       s.Result.RoomID,
			ParentID:     s.Result.ParentID,
			UploadedByID: s.Result.UploadedByID,
			StorageID:    s.Result.StorageID,
			StorageKey:   s.Result.StorageKey,
			Metadata:     s.Result.Metadata,
			CreatedAt:    s.Result.CreatedAt,
			UpdatedAt:    s.Result.UpdatedAt,
		}
	}
	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	return data, nil
}

func decodeSession(data []byte) (*domain.UploadSession, error) {
	var row kvSession
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	session := &domain.UploadSession{
		ID:               row.ID,
		FileID:           row.FileID,
		ProviderHandle:   row.ProviderHandle,
		FileName:         row.FileName,
		MimeType:         row.MimeType,
		TotalSize:        row.TotalSize,
		RoomID:           row.RoomID,
		UserID:           row.UserID,
		StorageAccountID: row.StorageAccountID,
		StorageKey:       row.StorageKey,
		PartSize:         row.PartSize,
		TotalParts:       row.TotalParts,
		Parts:            make(map[int]domain.UploadPart, len(row.Parts)),
		Status:           row.Status,
		Finalizing:       row.Finalizing,
		Metadata:         row.Metadata,
		StartedAt:        row.StartedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	for _, p := range row.Parts {
		session.Parts[p.PartNumber] = domain.UploadPart{PartNumber: p.PartNumber, ETag: p.ETag}
	}
	if row.Result != nil {
		session.Result = &domain.FileRecord{
			ID:           row.Result.ID,
			Name:         row.Result.Name,
			MimeType:     row.Result.MimeType,
			Size:         row.Result.Size,
			RoomID:       row.Result.RoomID,
			ParentID:     row.Result.ParentID,
			UploadedByID: row.Result.UploadedByID,
			StorageID:    row.Result.StorageID,
			StorageKey:   row.Result.StorageKey,
			Metadata:     row.Result.Metadata,
			CreatedAt:    row.Result.CreatedAt,
			UpdatedAt:    row.Result.UpdatedAt,
		}
	}
	return session, nil
}
