package upload

import (
	"context"

	"roomfiles/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockService is a testify mock of the upload service for handler tests
type MockService struct {
	mock.Mock
}

func NewMockService() *MockService {
	return &MockService{}
}

func (m *MockService) Begin(ctx context.Context, req domain.BeginUpload) (*domain.UploadTicket, error) {
	args := m.Called(ctx, req)
	ticket, _ := args.Get(0).(*domain.UploadTicket)
	return ticket, args.Error(1)
}

func (m *MockService) PartUploadURL(ctx context.Context, uploadID uuid.UUID, partNumber int, contentLength int64) (string, error) {
	args := m.Called(ctx, uploadID, partNumber, contentLength)
	return args.String(0), args.Error(1)
}

func (m *MockService) CompletePart(ctx context.Context, uploadID uuid.UUID, partNumber int, eTag string) (*domain.UploadProgress, error) {
	args := m.Called(ctx, uploadID, partNumber, eTag)
	progress, _ := args.Get(0).(*domain.UploadProgress)
	return progress, args.Error(1)
}

func (m *MockService) Finalize(ctx context.Context, uploadID uuid.UUID) (*domain.FileRecord, error) {
	args := m.Called(ctx, uploadID)
	record, _ := args.Get(0).(*domain.FileRecord)
	return record, args.Error(1)
}

func (m *MockService) Abort(ctx context.Context, uploadID uuid.UUID) error {
	args := m.Called(ctx, uploadID)
	return args.Error(0)
}

func (m *MockService) Status(ctx context.Context, uploadID uuid.UUID) (*domain.UploadProgress, error) {
	args := m.Called(ctx, uploadID)
	progress, _ := args.Get(0).(*domain.UploadProgress)
	return progress, args.Error(1)
}
