package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestPoolForVisitsEveryIndex(t *testing.T) {
	for _, workers := range []int{1, 3, 0} {
		p := NewPool(workers)
		const n = 257
		var seen [n]atomic.Int32
		err := p.For(context.Background(), n, func(_ context.Context, i int) error {
			seen[i].Add(1)
			return nil
		})
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		for i := range seen {
			if c := seen[i].Load(); c != 1 {
				t.Fatalf("workers=%d: index %d visited %d times", workers, i, c)
			}
		}
	}
}

func TestPoolForLimitsConcurrency(t *testing.T) {
	p := NewPool(2)
	var running, peak atomic.Int32
	_ = p.For(context.Background(), 50, func(context.Context, int) error {
		cur := running.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		running.Add(-1)
		return nil
	})
	if peak.Load() > 2 {
		t.Errorf("peak concurrency %d exceeds 2", peak.Load())
	}
}

func TestPoolForReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	for _, workers := range []int{1, 4} {
		err := NewPool(workers).For(context.Background(), 10, func(_ context.Context, i int) error {
			if i == 3 {
				return boom
			}
			return nil
		})
		if !errors.Is(err, boom) {
			t.Errorf("workers=%d: err = %v, want boom", workers, err)
		}
	}
}

func TestPoolForCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := NewPool(4).For(ctx, 8, func(context.Context, int) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if called {
		t.Error("work ran on a canceled context")
	}
	if err := NewPool(4).For(context.Background(), 0, nil); err != nil {
		t.Errorf("empty For: %v", err)
	}
}
