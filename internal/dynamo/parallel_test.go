package dynamo

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestParallelFor_CoversRange(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		workers  int
		minChunk int
	}{
		{"inline single worker", 100, 1, 10},
		{"below min chunk", 5, 4, 10},
		{"even split", 1000, 4, 10},
		{"uneven split", 1001, 3, 10},
		{"more workers than chunks", 30, 16, 10},
		{"empty", 0, 4, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := make([]int32, tt.n)
			ParallelFor(tt.n, tt.workers, tt.minChunk, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			for i, h := range hits {
				if h != 1 {
					t.Fatalf("index %d visited %d times", i, h)
				}
			}
		})
	}
}

func TestParallelForContext_FirstError(t *testing.T) {
	boom := errors.New("boom")
	var calls int32
	err := ParallelForContext(context.Background(), 100, 4, 10, func(ctx context.Context, start, end int) error {
		atomic.AddInt32(&calls, 1)
		if start == 0 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if calls != 4 {
		t.Errorf("expected 4 chunks, got %d", calls)
	}
}

func TestParallelForContext_Inline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ParallelForContext(ctx, 5, 8, 10, func(ctx context.Context, start, end int) error {
		if start != 0 || end != 5 {
			t.Errorf("inline range [%d, %d)", start, end)
		}
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected the caller's context, got %v", err)
	}
}
