package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_CollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var loads atomic.Int32

	loader := func(context.Context) (any, error) {
		loads.Add(1)
		time.Sleep(50 * time.Millisecond)
		return "2025mokc", nil
	}

	const workers = 32
	start := make(chan struct{})
	values := make(chan any, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "event:active", loader)
			if err != nil {
				t.Errorf("GetOrLoad failed: %v", err)
				return
			}
			values <- v
		}()
	}

	close(start)
	wg.Wait()
	close(values)

	if got := loads.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
	for v := range values {
		if got, _ := v.(string); got != "2025mokc" {
			t.Fatalf("unexpected cached value: %v", v)
		}
	}
}

func TestStore_GetOrLoad_ServesCachedValue(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var loads atomic.Int32

	loader := func(context.Context) (any, error) {
		loads.Add(1)
		return "cached", nil
	}

	for i := 0; i < 3; i++ {
		if _, err := store.GetOrLoad(context.Background(), "event:2025mokc", loader); err != nil {
			t.Fatalf("GetOrLoad %d failed: %v", i, err)
		}
	}

	if got := loads.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
}

func TestStore_ExpiredEntryDropped(t *testing.T) {
	t.Parallel()

	store := NewStore(10 * time.Millisecond)
	ctx := context.Background()

	store.Set(ctx, "event:active", "2025mokc")
	if _, ok := store.Get(ctx, "event:active"); !ok {
		t.Fatalf("fresh entry missing")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := store.Get(ctx, "event:active"); ok {
		t.Fatalf("expired entry still served")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "match:list:2025mokc", []string{"2025mokc_qm1"})
	store.Set(ctx, "match:list:2025mosl", []string{"2025mosl_qm1"})
	store.Set(ctx, "event:active", "2025mokc")

	store.DeletePrefix(ctx, "match:list:")

	if _, ok := store.Get(ctx, "match:list:2025mokc"); ok {
		t.Fatalf("prefixed key survived invalidation")
	}
	if _, ok := store.Get(ctx, "match:list:2025mosl"); ok {
		t.Fatalf("prefixed key survived invalidation")
	}
	if _, ok := store.Get(ctx, "event:active"); !ok {
		t.Fatalf("unrelated key was dropped")
	}
}
