package upload_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"roomfiles/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUploadService_Finalize_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	session := seedSession(t, f, domain.UploadStatusInProgress, 3, 3)

	expectedParts := []domain.UploadPart{
		{PartNumber: 1, ETag: "etag1"},
		{PartNumber: 2, ETag: "etag2"},
		{PartNumber: 3, ETag: "etag3"},
	}
	record := &domain.FileRecord{
		ID:         uuid.New(),
		Name:       session.FileName,
		MimeType:   session.MimeType,
		Size:       session.TotalSize,
		RoomID:     session.RoomID,
		StorageID:  testAccount.ID,
		StorageKey: session.StorageKey,
		CreatedAt:  time.Now(),
	}

	f.resolver.On("Resolve", ctx, session.RoomID, session.StorageAccountID).
		Return(f.provider, &testAccount, nil)
	f.provider.On("CompleteMultipartUpload", ctx, session.StorageKey, session.ProviderHandle, expectedParts).
		Return(nil)
	f.registrar.On("Create", ctx, mock.MatchedBy(func(in domain.NewFile) bool {
		return in.ID == session.FileID && in.Name == session.FileName &&
			in.StorageKey == session.StorageKey && in.StorageID == testAccount.ID
	})).Return(record, nil)

	// Act
	got, err := f.service.Finalize(ctx, session.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, record, got)

	progress, err := f.service.Status(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UploadStatusCompleted, progress.Status)

	f.provider.AssertExpectations(t)
	f.registrar.AssertExpectations(t)
}

func TestUploadService_Finalize_Idempotent(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	session := seedSession(t, f, domain.UploadStatusInProgress, 2, 2)
	record := &domain.FileRecord{ID: uuid.New(), Name: session.FileName}

	f.resolver.On("Resolve", ctx, session.RoomID, session.StorageAccountID).
		Return(f.provider, &testAccount, nil).Once()
	f.provider.On("CompleteMultipartUpload", ctx, session.StorageKey, session.ProviderHandle, mock.Anything).
		Return(nil).Once()
	f.registrar.On("Create", ctx, mock.Anything).Return(record, nil).Once()

	// Act
	first, err1 := f.service.Finalize(ctx, session.ID)
	second, err2 := f.service.Finalize(ctx, session.ID)

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first.ID, second.ID)
	f.provider.AssertNumberOfCalls(t, "CompleteMultipartUpload", 1)
	f.registrar.AssertNumberOfCalls(t, "Create", 1)
}

func TestUploadService_Finalize_ConcurrentDuplicateCompletesOnce(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	session := seedSession(t, f, domain.UploadStatusInProgress, 2, 2)
	record := &domain.FileRecord{ID: session.FileID, Name: session.FileName}

	entered := make(chan struct{})
	release := make(chan struct{})
	f.resolver.On("Resolve", ctx, session.RoomID, session.StorageAccountID).
		Return(f.provider, &testAccount, nil)
	f.provider.On("CompleteMultipartUpload", ctx, session.StorageKey, session.ProviderHandle, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).Return(nil).Once()
	f.registrar.On("Create", ctx, mock.Anything).Return(record, nil).Once()

	// Act: the second call arrives while the first is still inside the backend
	var wg sync.WaitGroup
	var first *domain.FileRecord
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		first, firstErr = f.service.Finalize(ctx, session.ID)
	}()
	<-entered
	second, secondErr := f.service.Finalize(ctx, session.ID)
	close(release)
	wg.Wait()

	// Assert: only one caller reached the backend and the registrar
	require.NoError(t, firstErr)
	assert.Equal(t, record, first)
	assert.Nil(t, second)
	assert.ErrorIs(t, secondErr, domain.ErrInvalidSessionState)
	f.provider.AssertNumberOfCalls(t, "CompleteMultipartUpload", 1)
	f.registrar.AssertNumberOfCalls(t, "Create", 1)

	progress, err := f.service.Status(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UploadStatusCompleted, progress.Status)
}

func TestUploadService_Finalize_ResolverFailureAllowsRetry(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	session := seedSession(t, f, domain.UploadStatusInProgress, 2, 2)
	record := &domain.FileRecord{ID: session.FileID, Name: session.FileName}

	f.resolver.On("Resolve", ctx, session.RoomID, session.StorageAccountID).
		Return(nil, nil, errors.New("resolver unavailable")).Once()
	f.resolver.On("Resolve", ctx, session.RoomID, session.StorageAccountID).
		Return(f.provider, &testAccount, nil).Once()
	f.provider.On("CompleteMultipartUpload", ctx, session.StorageKey, session.ProviderHandle, mock.Anything).
		Return(nil).Once()
	f.registrar.On("Create", ctx, mock.Anything).Return(record, nil).Once()

	// Act
	_, firstErr := f.service.Finalize(ctx, session.ID)
	got, retryErr := f.service.Finalize(ctx, session.ID)

	// Assert: the failed attempt must not hold the claim forever
	assert.Error(t, firstErr)
	require.NoError(t, retryErr)
	assert.Equal(t, record, got)
}

func TestUploadService_Finalize_Incomplete(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	session := seedSession(t, f, domain.UploadStatusInProgress, 3, 2)

	// Act
	got, err := f.service.Finalize(ctx, session.ID)

	// Assert
	assert.ErrorIs(t, err, domain.ErrUploadIncomplete)
	assert.Nil(t, got)
	f.provider.AssertNotCalled(t, "CompleteMultipartUpload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadService_Finalize_NotStarted(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	session := seedSession(t, f, domain.UploadStatusInitialized, 3, 0)

	// Act
	_, err := f.service.Finalize(ctx, session.ID)

	// Assert
	assert.ErrorIs(t, err, domain.ErrInvalidSessionState)
}

func TestUploadService_Finalize_ProviderFailureMarksFailed(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	session := seedSession(t, f, domain.UploadStatusInProgress, 2, 2)

	f.resolver.On("Resolve", ctx, session.RoomID, session.StorageAccountID).
		Return(f.provider, &testAccount, nil)
	f.provider.On("Name").Return("s3")
	f.provider.On("CompleteMultipartUpload", ctx, session.StorageKey, session.ProviderHandle, mock.Anything).
		Return(errors.New("assembly failed"))

	// Act
	got, err := f.service.Finalize(ctx, session.ID)

	// Assert
	assert.Nil(t, got)
	var pErr *domain.ProviderError
	require.ErrorAs(t, err, &pErr)

	progress, sErr := f.service.Status(ctx, session.ID)
	require.NoError(t, sErr)
	assert.Equal(t, domain.UploadStatusFailed, progress.Status)
	f.registrar.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUploadService_Finalize_RegistrarFailureMarksFailed(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	session := seedSession(t, f, domain.UploadStatusInProgress, 2, 2)

	f.resolver.On("Resolve", ctx, session.RoomID, session.StorageAccountID).
		Return(f.provider, &testAccount, nil)
	f.provider.On("CompleteMultipartUpload", ctx, session.StorageKey, session.ProviderHandle, mock.Anything).
		Return(nil)
	f.registrar.On("Create", ctx, mock.Anything).Return(nil, errors.New("db down"))

	// Act
	got, err := f.service.Finalize(ctx, session.ID)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, got)

	progress, sErr := f.service.Status(ctx, session.ID)
	require.NoError(t, sErr)
	assert.Equal(t, domain.UploadStatusFailed, progress.Status)
}

func TestUploadService_Finalize_SessionNotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()

	// Act
	_, err := f.service.Finalize(ctx, uuid.New())

	// Assert
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
