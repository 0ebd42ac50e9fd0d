package otp

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically purges expired pending verifications from a Store.
type Sweeper struct {
	store    *Store
	interval time.Duration
}

func NewSweeper(store *Store, interval time.Duration) *Sweeper {
	return &Sweeper{store: store, interval: interval}
}

// Run sweeps the store every interval until ctx is cancelled. Callers run it
// in its own goroutine and cancel ctx on shutdown.
func (sw *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			if n := sw.store.Sweep(now); n > 0 {
				slog.Info("swept expired verification codes", "removed", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
