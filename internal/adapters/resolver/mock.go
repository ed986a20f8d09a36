package resolver

import (
	"context"

	"roomfiles/internal/core/domain"
	"roomfiles/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockResolver is a testify mock of port.StorageAccountResolver
type MockResolver struct {
	mock.Mock
}

func NewMockResolver() *MockResolver {
	return &MockResolver{}
}

func (m *MockResolver) Resolve(ctx context.Context, roomID uuid.UUID, accountID string) (port.StorageProvider, *domain.StorageAccount, error) {
	args := m.Called(ctx, roomID, accountID)
	var provider port.StorageProvider
	if p := args.Get(0); p != nil {
		provider = p.(port.StorageProvider)
	}
	var account *domain.StorageAccount
	if a := args.Get(1); a != nil {
		account = a.(*domain.StorageAccount)
	}
	return provider, account, args.Error(2)
}
