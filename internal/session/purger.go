package session

import (
	"context"
	"sync"
	"time"

	"github.com/abdelrhman-sys/MoviX-API/internal/logger"
)

type purgeTicker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	ticker *time.Ticker
}

func (t timeTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t timeTicker) Stop() {
	t.ticker.Stop()
}

type tickerFactory func(time.Duration) purgeTicker

// StartPurgeWorker sweeps expired sessions every interval until ctx is
// done or the returned stop function is called. Stores that expire keys
// on their own (Redis) do not implement Purger and get a no-op worker.
func StartPurgeWorker(ctx context.Context, store Store, interval time.Duration) func() {
	purger, ok := store.(Purger)
	if !ok {
		return func() {}
	}
	return startPurgeWorkerWithTicker(ctx, purger, interval, func(d time.Duration) purgeTicker {
		return timeTicker{ticker: time.NewTicker(d)}
	})
}

func startPurgeWorkerWithTicker(
	ctx context.Context,
	purger Purger,
	interval time.Duration,
	newTicker tickerFactory,
) func() {
	if purger == nil || interval <= 0 {
		return func() {}
	}

	workerCtx, cancel := context.WithCancel(ctx)
	ticker := newTicker(interval)
	done := make(chan struct{})

	go func() {
		defer func() {
			ticker.Stop()
			close(done)
		}()
		for {
			select {
			case <-workerCtx.Done():
				return
			case now := <-ticker.C():
				n, err := purger.PurgeExpired(workerCtx, now)
				if err != nil {
					logger.Error("failed to purge expired sessions", map[string]any{
						"error": err.Error(),
					})
					continue
				}
				if n > 0 {
					logger.Debug("purged expired sessions", map[string]any{
						"count": n,
					})
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
