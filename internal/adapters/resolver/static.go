// Package resolver maps storage accounts to providers. The static resolver
// is built from configuration at startup; a per-room account registry would
// slot in behind the same port.
package resolver

import (
	"context"
	"fmt"

	"roomfiles/internal/core/domain"
	"roomfiles/internal/core/port"

	"github.com/google/uuid"
)

// StaticResolver resolves accounts from a fixed registration table
type StaticResolver struct {
	providers map[string]port.StorageProvider
	accounts  map[string]domain.StorageAccount
	defaultID string
}

// NewStaticResolver creates an empty resolver with a default account id
func NewStaticResolver(defaultAccountID string) *StaticResolver {
	return &StaticResolver{
		providers: make(map[string]port.StorageProvider),
		accounts:  make(map[string]domain.StorageAccount),
		defaultID: defaultAccountID,
	}
}

var _ port.StorageAccountResolver = (*StaticResolver)(nil)

// Register adds an account backed by the given provider
func (r *StaticResolver) Register(accountID string, provider port.StorageProvider) {
	r.providers[accountID] = provider
	r.accounts[accountID] = domain.StorageAccount{
		ID:       accountID,
		Provider: provider.Name(),
		IsActive: true,
	}
}

// Resolve returns the provider and account for the upload. An empty
// accountID selects the default account.
func (r *StaticResolver) Resolve(_ context.Context, _ uuid.UUID, accountID string) (port.StorageProvider, *domain.StorageAccount, error) {
	if accountID == "" {
		accountID = r.defaultID
	}
	provider, ok := r.providers[accountID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrAccountNotFound, accountID)
	}
	account := r.accounts[accountID]
	return provider, &account, nil
}
