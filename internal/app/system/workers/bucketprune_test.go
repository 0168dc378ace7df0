package workers

import (
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type countingPruner struct {
	calls atomic.Int32
}

func (p *countingPruner) Prune() int {
	p.calls.Add(1)
	return 1
}

func (p *countingPruner) Len() int { return 0 }

func TestBucketPrune_RunsUntilStopped(t *testing.T) {
	p := &countingPruner{}
	w := NewBucketPrune(p, zap.NewNop(), 5*time.Millisecond)
	w.Start()

	deadline := time.Now().Add(2 * time.Second)
	for p.calls.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("prune ran %d times, want at least 3", p.calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}

	w.Stop()
	after := p.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if got := p.calls.Load(); got != after {
		t.Errorf("prune kept running after Stop: %d -> %d", after, got)
	}

	w.Stop()
}
