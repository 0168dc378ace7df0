// internal/app/system/workers/bucketprune.go
package workers

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pruner drops idle per-key state. ratelimit.Limiter satisfies it.
type Pruner interface {
	Prune() int
	Len() int
}

// BucketPrune is a background worker that periodically drops idle
// rate-limit buckets so the limiter's memory follows active clients only.
type BucketPrune struct {
	target   Pruner
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewBucketPrune creates a prune worker running every interval.
func NewBucketPrune(target Pruner, logger *zap.Logger, interval time.Duration) *BucketPrune {
	return &BucketPrune{
		target:   target,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background loop.
func (w *BucketPrune) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("rate-limit prune worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish. Calling it
// more than once is safe.
func (w *BucketPrune) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("rate-limit prune worker stopped")
	})
}

func (w *BucketPrune) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.prune()
		}
	}
}

func (w *BucketPrune) prune() {
	if n := w.target.Prune(); n > 0 {
		w.log.Debug("pruned idle rate-limit buckets",
			zap.Int("removed", n),
			zap.Int("remaining", w.target.Len()))
	}
}
