package storage

import (
	"context"
	"io"
	"time"

	"roomfiles/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

// MockProvider is a testify mock of port.StorageProvider
type MockProvider struct {
	mock.Mock
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) Capabilities() domain.ProviderCapabilities {
	args := m.Called()
	return args.Get(0).(domain.ProviderCapabilities)
}

func (m *MockProvider) CreateMultipartUpload(ctx context.Context, key string, opts domain.UploadOptions) (string, error) {
	args := m.Called(ctx, key, opts)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) PartUploadURL(ctx context.Context, key string, handle string, partNumber int, contentLength int64) (string, error) {
	args := m.Called(ctx, key, handle, partNumber, contentLength)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) CompleteMultipartUpload(ctx context.Context, key string, handle string, parts []domain.UploadPart) error {
	args := m.Called(ctx, key, handle, parts)
	return args.Error(0)
}

func (m *MockProvider) AbortMultipartUpload(ctx context.Context, key string, handle string) error {
	args := m.Called(ctx, key, handle)
	return args.Error(0)
}

func (m *MockProvider) SignedURL(ctx context.Context, key string, opts domain.SignedURLOptions) (string, *time.Time, error) {
	args := m.Called(ctx, key, opts)
	return args.String(0), args.Get(1).(*time.Time), args.Error(2)
}

func (m *MockProvider) FileContent(ctx context.Context, key string, rng *domain.ByteRange) (io.ReadCloser, error) {
	args := m.Called(ctx, key, rng)
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockProvider) FileMetadata(ctx context.Context, key string) (*domain.ObjectInfo, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(*domain.ObjectInfo), args.Error(1)
}

func (m *MockProvider) ListFiles(ctx context.Context, prefix string, opts domain.ListOptions) ([]domain.ObjectInfo, string, error) {
	args := m.Called(ctx, prefix, opts)
	return args.Get(0).([]domain.ObjectInfo), args.String(1), args.Error(2)
}

func (m *MockProvider) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockProvider) StorageStats(ctx context.Context) (*domain.StorageStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(*domain.StorageStats), args.Error(1)
}
