package sweep_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"roomfiles/internal/adapters/sessionstore/memory"
	"roomfiles/internal/core/domain"
	"roomfiles/internal/core/service/sweep"
	"roomfiles/internal/core/service/upload"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, store *memory.Store, status domain.UploadStatus, updatedAt time.Time) uuid.UUID {
	t.Helper()
	session := &domain.UploadSession{
		ID:         uuid.New(),
		FileID:     uuid.New(),
		TotalParts: 2,
		Parts:      make(map[int]domain.UploadPart),
		Status:     status,
		StartedAt:  updatedAt,
		UpdatedAt:  updatedAt,
	}
	require.NoError(t, store.Create(context.Background(), session))
	return session.ID
}

func TestSweepService_Sweep(t *testing.T) {
	// Arrange
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	uploads := upload.NewMockService()
	now := time.Now()

	oldAbortedID := seed(t, store, domain.UploadStatusAborted, now.Add(-2*time.Hour))
	idleID := seed(t, store, domain.UploadStatusInProgress, now.Add(-8*time.Hour))
	activeID := seed(t, store, domain.UploadStatusInProgress, now.Add(-time.Minute))
	freshCompletedID := seed(t, store, domain.UploadStatusCompleted, now.Add(-time.Minute))

	uploads.On("Abort", mock.Anything, idleID).Return(nil)

	service := sweep.NewSweepService(store, uploads, time.Hour, 6*time.Hour, logger)

	// Act
	err := service.Sweep(ctx, now)

	// Assert
	require.NoError(t, err)

	_, err = store.Get(ctx, oldAbortedID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = store.Get(ctx, idleID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = store.Get(ctx, activeID)
	assert.NoError(t, err)
	_, err = store.Get(ctx, freshCompletedID)
	assert.NoError(t, err)

	// terminal sessions are purged without another abort round-trip
	uploads.AssertNumberOfCalls(t, "Abort", 1)
}

func TestSweepService_Sweep_EmptyStore(t *testing.T) {
	// Arrange
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	uploads := upload.NewMockService()

	service := sweep.NewSweepService(store, uploads, time.Hour, 6*time.Hour, logger)

	// Act
	err := service.Sweep(ctx, time.Now())

	// Assert
	require.NoError(t, err)
	uploads.AssertNotCalled(t, "Abort", mock.Anything, mock.Anything)
}

func TestSweepService_Sweep_AbortFailureStillPurges(t *testing.T) {
	// Arrange
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	uploads := upload.NewMockService()
	now := time.Now()

	idleID := seed(t, store, domain.UploadStatusInProgress, now.Add(-8*time.Hour))
	uploads.On("Abort", mock.Anything, idleID).Return(assert.AnError)

	service := sweep.NewSweepService(store, uploads, time.Hour, 6*time.Hour, logger)

	// Act
	err := service.Sweep(ctx, now)

	// Assert
	require.NoError(t, err)
	_, err = store.Get(ctx, idleID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
