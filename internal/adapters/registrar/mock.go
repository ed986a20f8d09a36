package registrar

import (
	"context"

	"roomfiles/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

// MockRegistrar is a testify mock of port.FileRegistrar
type MockRegistrar struct {
	mock.Mock
}

func NewMockRegistrar() *MockRegistrar {
	return &MockRegistrar{}
}

func (m *MockRegistrar) Create(ctx context.Context, in domain.NewFile) (*domain.FileRecord, error) {
	args := m.Called(ctx, in)
	var record *domain.FileRecord
	if r := args.Get(0); r != nil {
		record = r.(*domain.FileRecord)
	}
	return record, args.Error(1)
}

func (m *MockRegistrar) CreateVersion(ctx context.Context, in domain.NewVersion) (*domain.VersionRecord, error) {
	args := m.Called(ctx, in)
	var record *domain.VersionRecord
	if r := args.Get(0); r != nil {
		record = r.(*domain.VersionRecord)
	}
	return record, args.Error(1)
}
