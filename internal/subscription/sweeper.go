package subscription

import (
	"context"
	"time"

	"gymclass/internal/logger"
)

// RunSweeper calls Sweep once at start and then every interval until ctx is
// cancelled. Failures are logged and retried on the next tick.
func RunSweeper(ctx context.Context, svc Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("subscription sweeper started", "interval", interval.String())
	for {
		if _, err := svc.Sweep(ctx); err != nil && ctx.Err() == nil {
			logger.Error("subscription sweep failed", "error", err)
		}

		select {
		case <-ctx.Done():
			logger.Info("subscription sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}
