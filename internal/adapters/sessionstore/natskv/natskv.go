// Package natskv backs the session store with a JetStream key-value bucket so
// any service instance can drive a session begun on another instance.
// Mutations go through a revision-checked compare-and-swap loop.
package natskv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roomfiles/internal/core/domain"
	"roomfiles/internal/core/port"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
)

const maxCASRetries = 8

// Store is a SessionStore on a JetStream KV bucket
type Store struct {
	kv jetstream.KeyValue
}

// NewStore creates or binds the KV bucket
func NewStore(ctx context.Context, js jetstream.JetStream, bucket string) (*Store, error) {
	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "in-flight upload sessions",
		History:     1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session bucket: %w", err)
	}
	return &Store{kv: kv}, nil
}

var _ port.SessionStore = (*Store)(nil)

// Create stores a new session
func (n *Store) Create(ctx context.Context, session *domain.UploadSession) error {
	data, err := encodeSession(session)
	if err != nil {
		return err
	}
	if _, err := n.kv.Create(ctx, session.ID.String(), data); err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			return domain.ErrSessionExists
		}
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (n *Store) fetch(ctx context.Context, id uuid.UUID) (*domain.UploadSession, uint64, error) {
	kvEntry, err := n.kv.Get(ctx, id.String())
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, 0, domain.ErrSessionNotFound
		}
		return nil, 0, fmt.Errorf("failed to load session: %w", err)
	}
	session, err := decodeSession(kvEntry.Value())
	if err != nil {
		return nil, 0, err
	}
	return session, kvEntry.Revision(), nil
}

// Get returns a snapshot of the session
func (n *Store) Get(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	session, _, err := n.fetch(ctx, id)
	return session, err
}

// Update applies fn and commits with the revision observed at read time.
// A revision conflict means another instance committed first; the read and
// fn are replayed against the fresh value. Any other backend error is
// surfaced immediately.
func (n *Store) Update(ctx context.Context, id uuid.UUID, fn func(*domain.UploadSession) error) (*domain.UploadSession, error) {
	for attempt := 0; attempt < maxCASRetries; attempt++ {
		session, revision, err := n.fetch(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := fn(session); err != nil {
			return nil, err
		}
		data, err := encodeSession(session)
		if err != nil {
			return nil, err
		}
		_, err = n.kv.Update(ctx, id.String(), data, revision)
		if err == nil {
			return session, nil
		}
		var apiErr *jetstream.APIError
		if !errors.As(err, &apiErr) || apiErr.ErrorCode != jetstream.JSErrCodeStreamWrongLastSequence {
			return nil, fmt.Errorf("failed to update session: %w", err)
		}
	}
	return nil, fmt.Errorf("failed to update session %s: too many conflicting writers", id)
}

// Delete purges the session
func (n *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if _, _, err := n.fetch(ctx, id); err != nil {
		return err
	}
	if err := n.kv.Purge(ctx, id.String()); err != nil {
		return fmt.Errorf("failed to purge session: %w", err)
	}
	return nil
}

// Stale scans the bucket for sweep candidates.
func (n *Store) Stale(ctx context.Context, terminalBefore, idleBefore time.Time) ([]domain.UploadSession, error) {
	lister, err := n.kv.ListKeys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer lister.Stop()

	var stale []domain.UploadSession
	for key := range lister.Keys() {
		id, err := uuid.Parse(key)
		if err != nil {
			continue
		}
		session, _, err := n.fetch(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				continue
			}
			return nil, err
		}
		if session.Status.Terminal() {
			if session.UpdatedAt.Before(terminalBefore) {
				stale = append(stale, *session)
			}
			continue
		}
		if session.UpdatedAt.Before(idleBefore) {
			stale = append(stale, *session)
		}
	}
	return stale, nil
}
