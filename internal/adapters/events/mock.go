package events

import (
	"context"

	"roomfiles/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

// MockSink is a testify mock of port.ProgressSink
type MockSink struct {
	mock.Mock
}

func NewMockSink() *MockSink {
	return &MockSink{}
}

func (m *MockSink) Publish(ctx context.Context, event domain.UploadEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
