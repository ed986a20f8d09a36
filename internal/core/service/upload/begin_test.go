package upload_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"roomfiles/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUploadService_Begin_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	roomID := uuid.New()

	f.resolver.On("Resolve", ctx, roomID, "").Return(f.provider, &testAccount, nil)
	f.provider.On("Name").Return("s3")
	f.provider.On("Capabilities").Return(testCaps)
	f.provider.On("CreateMultipartUpload", ctx, mock.Anything, mock.Anything).Return("handle-123", nil)

	// Act
	ticket, err := f.service.Begin(ctx, domain.BeginUpload{
		FileName:  "clip.mp4",
		MimeType:  "video/mp4",
		TotalSize: 12 << 20,
		RoomID:    roomID,
		UserID:    uuid.New(),
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(5<<20), ticket.PartSize)
	assert.Equal(t, 3, ticket.TotalParts)

	progress, err := f.service.Status(ctx, ticket.UploadID)
	require.NoError(t, err)
	assert.Equal(t, domain.UploadStatusInitialized, progress.Status)
	assert.Equal(t, 0, progress.CompletedParts)

	f.resolver.AssertExpectations(t)
	f.provider.AssertExpectations(t)
}

func TestUploadService_Begin_UnknownContentType(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()

	// Act
	ticket, err := f.service.Begin(ctx, domain.BeginUpload{
		FileName:  "clip.mp4",
		MimeType:  "not a real type",
		TotalSize: 12 << 20,
		RoomID:    uuid.New(),
		UserID:    uuid.New(),
	})

	// Assert
	assert.ErrorIs(t, err, domain.ErrInvalidFileType)
	assert.Nil(t, ticket)
	f.resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadService_Begin_AccountNotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	roomID := uuid.New()

	f.resolver.On("Resolve", ctx, roomID, "missing").Return(nil, nil, domain.ErrAccountNotFound)

	// Act
	ticket, err := f.service.Begin(ctx, domain.BeginUpload{
		FileName:         "clip.mp4",
		MimeType:         "video/mp4",
		TotalSize:        12 << 20,
		RoomID:           roomID,
		UserID:           uuid.New(),
		StorageAccountID: "missing",
	})

	// Assert
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.Nil(t, ticket)
}

func TestUploadService_Begin_MultipartUnsupported(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	roomID := uuid.New()

	f.resolver.On("Resolve", ctx, roomID, "").Return(f.provider, &testAccount, nil)
	f.provider.On("Name").Return("legacy")
	f.provider.On("Capabilities").Return(domain.ProviderCapabilities{SupportsMultipartUpload: false})

	// Act
	ticket, err := f.service.Begin(ctx, domain.BeginUpload{
		FileName:  "clip.mp4",
		MimeType:  "video/mp4",
		TotalSize: 12 << 20,
		RoomID:    roomID,
		UserID:    uuid.New(),
	})

	// Assert
	assert.ErrorIs(t, err, domain.ErrMultipartUnsupported)
	assert.Nil(t, ticket)
	f.provider.AssertNotCalled(t, "CreateMultipartUpload", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadService_Begin_FileTooLarge(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	roomID := uuid.New()

	f.resolver.On("Resolve", ctx, roomID, "").Return(f.provider, &testAccount, nil)
	f.provider.On("Capabilities").Return(testCaps)

	// Act
	ticket, err := f.service.Begin(ctx, domain.BeginUpload{
		FileName:  "clip.mp4",
		MimeType:  "video/mp4",
		TotalSize: testCaps.MaxUploadSize() + 1,
		RoomID:    roomID,
		UserID:    uuid.New(),
	})

	// Assert
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	assert.Nil(t, ticket)
	f.provider.AssertNotCalled(t, "CreateMultipartUpload", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadService_Begin_ProviderFailureLeavesNoSession(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	roomID := uuid.New()

	f.resolver.On("Resolve", ctx, roomID, "").Return(f.provider, &testAccount, nil)
	f.provider.On("Name").Return("s3")
	f.provider.On("Capabilities").Return(testCaps)
	f.provider.On("CreateMultipartUpload", ctx, mock.Anything, mock.Anything).
		Return("", errors.New("bucket gone"))

	// Act
	ticket, err := f.service.Begin(ctx, domain.BeginUpload{
		FileName:  "clip.mp4",
		MimeType:  "video/mp4",
		TotalSize: 12 << 20,
		RoomID:    roomID,
		UserID:    uuid.New(),
	})

	// Assert
	assert.Nil(t, ticket)
	var pErr *domain.ProviderError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "s3", pErr.Provider)

	future := time.Now().Add(time.Hour)
	stale, sErr := f.store.Stale(ctx, future, future)
	require.NoError(t, sErr)
	assert.Empty(t, stale)
}
