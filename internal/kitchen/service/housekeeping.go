package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/onkyoh/paper-kitchen-api/pkg/slogx"
)

// DefaultHousekeepingInterval is how often the background sweep runs when
// the config does not say otherwise.
const DefaultHousekeepingInterval = time.Hour

// Housekeeping periodically prunes share links past retention. The lazy
// sweep on resolve keeps the table honest under traffic; this loop covers
// idle deployments.
type Housekeeping struct {
	Join     *JoinService
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// Start launches the background loop. Call Stop to shut it down.
func (h *Housekeeping) Start(ctx context.Context) {
	interval := h.Interval
	if interval <= 0 {
		interval = DefaultHousekeepingInterval
	}

	h.stopCh = make(chan struct{})
	h.doneCh = make(chan struct{})

	go h.run(ctx, interval)
}

// Stop signals the loop and waits for the in-flight sweep to finish.
func (h *Housekeeping) Stop() {
	if h.stopCh == nil {
		return
	}
	close(h.stopCh)
	<-h.doneCh
}

func (h *Housekeeping) run(ctx context.Context, interval time.Duration) {
	defer close(h.doneCh)

	log := slogx.FromContext(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := h.Join.SweepExpired(ctx)
			if err != nil {
				log.Error("share link sweep failed", slog.Any("error", err))
				continue
			}
			if removed > 0 {
				log.Info("share links swept", slog.Int64("removed", removed))
			}
		}
	}
}
