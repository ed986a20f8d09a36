package sweep

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"roomfiles/internal/core/domain"
	"roomfiles/internal/core/port"

	"golang.org/x/sync/errgroup"
)

const maxConcurrentSweeps = 4

type sweepService struct {
	store       port.SessionStore
	uploads     port.UploadService
	gracePeriod time.Duration
	idleTimeout time.Duration
	logger      *slog.Logger
}

// NewSweepService creates the periodic session garbage collector. Terminal
// sessions are retained for gracePeriod to answer late status queries, then
// purged. Sessions idle past idleTimeout are aborted and purged.
func NewSweepService(
	store port.SessionStore,
	uploads port.UploadService,
	gracePeriod time.Duration,
	idleTimeout time.Duration,
	logger *slog.Logger,
) port.SweepService {
	return &sweepService{
		store:       store,
		uploads:     uploads,
		gracePeriod: gracePeriod,
		idleTimeout: idleTimeout,
		logger:      logger,
	}
}

// Sweep runs one pass over the session store.
func (c *sweepService) Sweep(ctx context.Context, now time.Time) error {
	sessions, err := c.store.Stale(ctx, now.Add(-c.gracePeriod), now.Add(-c.idleTimeout))
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSweeps)

	for _, session := range sessions {
		session := session
		g.Go(func() error {
			if !session.Status.Terminal() {
				if err := c.uploads.Abort(gCtx, session.ID); err != nil {
					c.logger.Warn("failed to abort idle upload session",
						"upload_id", session.ID, "error", err)
				}
			}
			if err := c.store.Delete(gCtx, session.ID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
				c.logger.Error("failed to purge upload session",
					"upload_id", session.ID, "error", err)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	c.logger.Info("session sweep completed", "swept", len(sessions))
	return nil
}
