// Package postgres persists file and version records on database/sql.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"roomfiles/internal/core/domain"
	"roomfiles/internal/core/port"

	"github.com/google/uuid"
)

// Registrar is a FileRegistrar backed by postgres
type Registrar struct {
	db *sql.DB
}

// NewRegistrar creates a postgres-backed file registrar
func NewRegistrar(db *sql.DB) *Registrar {
	return &Registrar{db: db}
}

var _ port.FileRegistrar = (*Registrar)(nil)

// Create inserts the file record and its initial version in one transaction
func (r *Registrar) Create(ctx context.Context, in domain.NewFile) (*domain.FileRecord, error) {
	metadata, err := json.Marshal(in.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	fileID := in.ID
	if fileID == uuid.Nil {
		fileID = uuid.New()
	}
	query := `
		INSERT INTO files (
			id, name, mime_type, size_bytes, room_id, parent_id, uploaded_by_id, storage_id, storage_key, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	var createdAt, updatedAt time.Time
	err = tx.QueryRowContext(
		ctx,
		query,
		fileID,
		in.Name,
		in.MimeType,
		in.Size,
		in.RoomID,
		in.ParentID,
		in.UploadedByID,
		in.StorageID,
		in.StorageKey,
		metadata,
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	versionQuery := `
		INSERT INTO file_versions (
			id, file_id, size_bytes, storage_key, uploaded_by_id
		) VALUES ($1, $2, $3, $4, $5)`

	if _, err := tx.ExecContext(ctx, versionQuery, uuid.New(), fileID, in.Size, in.StorageKey, in.UploadedByID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return &domain.FileRecord{
		ID:           fileID,
		Name:         in.Name,
		MimeType:     in.MimeType,
		Size:         in.Size,
		RoomID:       in.RoomID,
		ParentID:     in.ParentID,
		UploadedByID: in.UploadedByID,
		StorageID:    in.StorageID,
		StorageKey:   in.StorageKey,
		Metadata:     in.Metadata,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

// CreateVersion inserts a new version for an existing file
func (r *Registrar) CreateVersion(ctx context.Context, in domain.NewVersion) (*domain.VersionRecord, error) {
	query := `
		INSERT INTO file_versions (
			id, file_id, size_bytes, storage_key, uploaded_by_id
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	versionID := uuid.New()
	var createdAt time.Time
	err := r.db.QueryRowContext(ctx, query, versionID, in.FileID, in.Size, in.StorageKey, in.UploadedByID).Scan(&createdAt)
	if err != nil {
		return nil, err
	}

	return &domain.VersionRecord{
		ID:           versionID,
		FileID:       in.FileID,
		Size:         in.Size,
		StorageKey:   in.StorageKey,
		UploadedByID: in.UploadedByID,
		CreatedAt:    createdAt,
	}, nil
}

// FindByID loads a file record
func (r *Registrar) FindByID(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error) {
	query := `
		SELECT id, name, mime_type, size_bytes, room_id, parent_id, uploaded_by_id, storage_id, storage_key, metadata, created_at, updated_at
		FROM files
		WHERE id = $1`

	var row dbFile
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&row.ID,
		&row.Name,
		&row.MimeType,
		&row.SizeBytes,
		&row.RoomID,
		&row.ParentID,
		&row.UploadedByID,
		&row.StorageID,
		&row.StorageKey,
		&row.Metadata,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, err
	}
	return row.ToDomain()
}

type dbFile struct {
	ID           uuid.UUID
	Name         string
	MimeType     string
	SizeBytes    int64
	RoomID       uuid.UUID
	ParentID     *uuid.UUID
	UploadedByID uuid.UUID
	StorageID    string
	StorageKey   string
	Metadata     []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ToDomain converts db obj to domain
func (f *dbFile) ToDomain() (*domain.FileRecord, error) {
	record := &domain.FileRecord{
		ID:           f.ID,
		Name:         f.Name,
		MimeType:     f.MimeType,
		Size:         f.SizeBytes,
		RoomID:       f.RoomID,
		ParentID:     f.ParentID,
		UploadedByID: f.UploadedByID,
		StorageID:    f.StorageID,
		StorageKey:   f.StorageKey,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
	if len(f.Metadata) > 0 {
		if err := json.Unmarshal(f.Metadata, &record.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata: %w", err)
		}
	}
	return record, nil
}
