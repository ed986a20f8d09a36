// Package memory holds upload sessions in process-local memory. Mutations
// take a per-session lock, so operations on distinct uploads never serialize.
// For multi-instance deployments use the natskv store instead.
package memory

import (
	"context"
	"sync"
	"time"

	"roomfiles/internal/core/domain"
	"roomfiles/internal/core/port"

	"github.com/google/uuid"
)

type entry struct {
	mu      sync.Mutex
	session domain.UploadSession
}

// Store is an in-process SessionStore
type Store struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*entry
}

// NewStore creates an empty in-process session store
func NewStore() *Store {
	return &Store{entries: make(map[uuid.UUID]*entry)}
}

var _ port.SessionStore = (*Store)(nil)

// clone copies the session deeply enough that callers can never mutate the
// stored maps behind the lock.
func clone(s *domain.UploadSession) *domain.UploadSession {
	out := *s
	out.Parts = make(map[int]domain.UploadPart, len(s.Parts))
	for n, p := range s.Parts {
		out.Parts[n] = p
	}
	if s.Metadata != nil {
		out.Metadata = make(map[string]string, len(s.Metadata))
		for k, v := range s.Metadata {
			out.Metadata[k] = v
		}
	}
	if s.Result != nil {
		r := *s.Result
		out.Result = &r
	}
	return &out
}

// Create stores a new session
func (m *Store) Create(_ context.Context, session *domain.UploadSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[session.ID]; ok {
		return domain.ErrSessionExists
	}
	m.entries[session.ID] = &entry{session: *clone(session)}
	return nil
}

func (m *Store) lookup(id uuid.UUID) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return e, nil
}

// Get returns a snapshot of the session
func (m *Store) Get(_ context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	e, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return clone(&e.session), nil
}

// Update applies fn under the session's lock and commits the result. If fn
// returns an error the stored session is left untouched.
func (m *Store) Update(_ context.Context, id uuid.UUID, fn func(*domain.UploadSession) error) (*domain.UploadSession, error) {
	e, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	working := clone(&e.session)
	if err := fn(working); err != nil {
		return nil, err
	}
	e.session = *working
	return clone(working), nil
}

// Delete purges the session
func (m *Store) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(m.entries, id)
	return nil
}

// Stale returns sweep candidates: terminal sessions last updated before
// terminalBefore and non-terminal sessions idle since before idleBefore.
func (m *Store) Stale(_ context.Context, terminalBefore, idleBefore time.Time) ([]domain.UploadSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stale []domain.UploadSession
	for _, e := range m.entries {
		e.mu.Lock()
		s := e.session
		e.mu.Unlock()

		if s.Status.Terminal() {
			if s.UpdatedAt.Before(terminalBefore) {
				stale = append(stale, *clone(&s))
			}
			continue
		}
		if s.UpdatedAt.Before(idleBefore) {
			stale = append(stale, *clone(&s))
		}
	}
	return stale, nil
}
