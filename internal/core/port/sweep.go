package port

import (
	"context"
	"time"
)

// SweepService is the periodic garbage collector for the session store
type SweepService interface {
	Sweep(ctx context.Context, now time.Time) error
}
