package main

import (
	"context"
	"time"

	"github.com/heroines-gacha/fights/internal/service"
)

// startStateSweeper periodically drops fight states whose TTL ran out. It
// stops when ctx is done.
func startStateSweeper(ctx context.Context, svc *service.Service, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				// errors are logged by the service; the next tick retries
				_, _ = svc.SweepExpiredStates(ctx, now)
			}
		}
	}()
}
