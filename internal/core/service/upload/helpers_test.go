package upload_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"roomfiles/internal/adapters/events"
	"roomfiles/internal/adapters/registrar"
	"roomfiles/internal/adapters/resolver"
	"roomfiles/internal/adapters/sessionstore/memory"
	"roomfiles/internal/adapters/storage"
	"roomfiles/internal/core/domain"
	"roomfiles/internal/core/port"
	"roomfiles/internal/core/service/upload"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testCaps = domain.ProviderCapabilities{
	SupportsMultipartUpload: true,
	MinimumPartSize:         5 << 20,
	MaximumPartSize:         5 << 30,
	MaximumPartCount:        10000,
	SupportsRangeRequests:   true,
	MaximumFileSize:         5 << 40,
}

var testAccount = domain.StorageAccount{ID: "s3-default", Provider: "s3", IsActive: true}

type fixture struct {
	store     *memory.Store
	resolver  *resolver.MockResolver
	provider  *storage.MockProvider
	registrar *registrar.MockRegistrar
	sink      *events.MockSink
	service   port.UploadService
}

func newFixture() *fixture {
	f := &fixture{
		store:     memory.NewStore(),
		resolver:  resolver.NewMockResolver(),
		provider:  storage.NewMockProvider(),
		registrar: registrar.NewMockRegistrar(),
		sink:      events.NewMockSink(),
	}
	f.sink.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = upload.NewUploadService(f.store, f.resolver, f.registrar, f.sink, logger)
	return f
}

// seedSession plants a session directly in the store, bypassing Begin.
func seedSession(t *testing.T, f *fixture, status domain.UploadStatus, totalParts int, completed int) *domain.UploadSession {
	t.Helper()

	now := time.Now()
	session := &domain.UploadSession{
		ID:               uuid.New(),
		FileID:           uuid.New(),
		ProviderHandle:   "handle-123",
		FileName:         "clip.mp4",
		MimeType:         "video/mp4",
		TotalSize:        int64(totalParts) * testCaps.MinimumPartSize,
		RoomID:           uuid.New(),
		UserID:           uuid.New(),
		StorageAccountID: testAccount.ID,
		StorageKey:       "rooms/r/f/clip.mp4",
		PartSize:         testCaps.MinimumPartSize,
		TotalParts:       totalParts,
		Parts:            make(map[int]domain.UploadPart),
		Status:           status,
		StartedAt:        now,
		UpdatedAt:        now,
	}
	for n := 1; n <= completed; n++ {
		session.Parts[n] = domain.UploadPart{PartNumber: n, ETag: fmt.Sprintf("etag%d", n)}
	}

	require.NoError(t, f.store.Create(context.Background(), session))
	return session
}
