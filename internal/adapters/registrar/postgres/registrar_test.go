package postgres_test

import (
	"context"
	"testing"

	"roomfiles/internal/adapters/registrar/postgres"
	"roomfiles/internal/core/domain"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrar_CreateAndFindByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	// Arrange
	db, cleanup := postgres.NewTestDB(t)
	defer cleanup()
	ctx := context.Background()
	registrar := postgres.NewRegistrar(db)

	in := domain.NewFile{
		ID:           uuid.New(),
		Name:         "clip.mp4",
		MimeType:     "video/mp4",
		Size:         12 << 20,
		RoomID:       uuid.New(),
		UploadedByID: uuid.New(),
		StorageID:    "s3-default",
		StorageKey:   "rooms/r1/f1/clip.mp4",
		Metadata:     map[string]string{"camera": "gopro"},
	}

	// Act
	record, err := registrar.Create(ctx, in)

	// Assert
	require.NoError(t, err)
	// the row keeps the id the orchestrator assigned at begin
	assert.Equal(t, in.ID, record.ID)
	assert.Equal(t, in.Name, record.Name)
	assert.Equal(t, in.Size, record.Size)
	assert.False(t, record.CreatedAt.IsZero())

	found, err := registrar.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, found.ID)
	assert.Equal(t, in.StorageKey, found.StorageKey)
	assert.Equal(t, in.Metadata, found.Metadata)

	// the initial version row is written in the same transaction
	var versions int
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT count(*) FROM file_versions WHERE file_id = $1", record.ID).Scan(&versions))
	assert.Equal(t, 1, versions)
}

func TestRegistrar_FindByID_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	// Arrange
	db, cleanup := postgres.NewTestDB(t)
	defer cleanup()
	registrar := postgres.NewRegistrar(db)

	// Act
	_, err := registrar.FindByID(context.Background(), uuid.New())

	// Assert
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestRegistrar_CreateVersion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	// Arrange
	db, cleanup := postgres.NewTestDB(t)
	defer cleanup()
	ctx := context.Background()
	registrar := postgres.NewRegistrar(db)

	record, err := registrar.Create(ctx, domain.NewFile{
		Name:         "doc.pdf",
		MimeType:     "application/pdf",
		Size:         1 << 20,
		RoomID:       uuid.New(),
		UploadedByID: uuid.New(),
		StorageID:    "s3-default",
		StorageKey:   "rooms/r1/f2/doc.pdf",
	})
	require.NoError(t, err)
	// a zero input id falls back to a minted one
	assert.NotEqual(t, uuid.Nil, record.ID)

	// Act
	version, err := registrar.CreateVersion(ctx, domain.NewVersion{
		FileID:       record.ID,
		Size:         2 << 20,
		StorageKey:   "rooms/r1/f2/doc-v2.pdf",
		UploadedByID: record.UploadedByID,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, record.ID, version.FileID)
	assert.Equal(t, int64(2<<20), version.Size)
	assert.False(t, version.CreatedAt.IsZero())
}
