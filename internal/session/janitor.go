package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Purger deletes sessions that expired at or before now.
type Purger interface {
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Janitor periodically removes expired session rows from stores that do not
// expire records on their own.
type Janitor struct {
	mu       sync.Mutex
	purger   Purger
	interval time.Duration
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// DefaultPurgeInterval is used when NewJanitor is given a non-positive interval.
const DefaultPurgeInterval = 10 * time.Minute

func NewJanitor(purger Purger, interval time.Duration, logger *slog.Logger) *Janitor {
	if interval <= 0 {
		interval = DefaultPurgeInterval
	}
	return &Janitor{
		purger:   purger,
		interval: interval,
		logger:   logger,
	}
}

// Start runs one purge immediately, then one per interval until Stop.
func (j *Janitor) Start(ctx context.Context) {
	j.mu.Lock()
	ctx, j.cancel = context.WithCancel(ctx)
	j.done = make(chan struct{})
	j.mu.Unlock()

	go func() {
		defer close(j.done)
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		j.purge(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.purge(ctx)
			}
		}
	}()
}

func (j *Janitor) Stop() {
	j.mu.Lock()
	cancel, done := j.cancel, j.done
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (j *Janitor) purge(ctx context.Context) {
	n, err := j.purger.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		j.logger.Error("Failed to purge expired sessions", "error", err)
		return
	}
	if n > 0 {
		j.logger.Debug("Purged expired sessions", "count", n)
	}
}
