package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(retries int) (*QueryCache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New(5*time.Minute, retries)
	c.now = clock.Now
	c.backoff = time.Millisecond
	return c, clock
}

func TestFetchFreshness(t *testing.T) {
	c, clock := newTestCache(1)
	ctx := context.Background()
	var calls int
	fn := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	v, err := Fetch(ctx, c, SlotSearch, "q", 2*time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	clock.Advance(time.Minute)
	v, err = Fetch(ctx, c, SlotSearch, "q", 2*time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, 1, v, "fresh entry is served from cache")

	clock.Advance(90 * time.Second)
	v, err = Fetch(ctx, c, SlotSearch, "q", 2*time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, 2, v, "stale entry is refetched")
}

func TestSlotsAreIndependent(t *testing.T) {
	c, _ := newTestCache(0)
	ctx := context.Background()

	a, err := Fetch(ctx, c, SlotAutocomplete, "x", time.Minute, func(context.Context) (string, error) { return "suggest", nil })
	require.NoError(t, err)
	b, err := Fetch(ctx, c, SlotSearch, "x", time.Minute, func(context.Context) (string, error) { return "search", nil })
	require.NoError(t, err)

	assert.Equal(t, "suggest", a)
	assert.Equal(t, "search", b)
	assert.Equal(t, 2, c.Len())
}

func TestGarbageCollection(t *testing.T) {
	c, clock := newTestCache(0)
	ctx := context.Background()
	_, err := Fetch(ctx, c, SlotDetail, "AAPL", time.Minute, func(context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	clock.Advance(6 * time.Minute)
	_, err = Fetch(ctx, c, SlotDetail, "MSFT", time.Minute, func(context.Context) (int, error) { return 2, nil })
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestRetryAtMostOnce(t *testing.T) {
	c, _ := newTestCache(1)
	ctx := context.Background()

	var calls int
	v, err := Fetch(ctx, c, SlotSearch, "flaky", time.Minute, func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("boom")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 2, calls)

	calls = 0
	_, err = Fetch(ctx, c, SlotSearch, "broken", time.Minute, func(context.Context) (int, error) {
		calls++
		return 0, errors.New("down")
	})
	assert.EqualError(t, err, "down")
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, c.Len(), "errors are not cached")
}

func TestNewKeySupersedesInFlight(t *testing.T) {
	c, _ := newTestCache(1)
	ctx := context.Background()

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := Fetch(ctx, c, SlotAutocomplete, "ap", time.Minute, func(ctx context.Context) (int, error) {
			close(started)
			<-ctx.Done()
			return 0, ctx.Err()
		})
		done <- err
	}()
	<-started

	v, err := Fetch(ctx, c, SlotAutocomplete, "app", time.Minute, func(context.Context) (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(time.Second):
		t.Fatal("superseded fetch was not cancelled")
	}
}

func TestReturningKeyStartsFreshCall(t *testing.T) {
	c, _ := newTestCache(0)
	ctx := context.Background()

	started := make(chan struct{})
	unwind := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := Fetch(ctx, c, SlotSearch, "x", time.Minute, func(ctx context.Context) (string, error) {
			close(started)
			<-ctx.Done()
			<-unwind
			return "", ctx.Err()
		})
		done <- err
	}()
	<-started

	y, err := Fetch(ctx, c, SlotSearch, "y", time.Minute, func(context.Context) (string, error) { return "y", nil })
	require.NoError(t, err)
	assert.Equal(t, "y", y)

	// the cancelled call for x is still unwinding
	x, err := Fetch(ctx, c, SlotSearch, "x", time.Minute, func(context.Context) (string, error) { return "x2", nil })
	require.NoError(t, err)
	assert.Equal(t, "x2", x)

	close(unwind)
	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(time.Second):
		t.Fatal("cancelled fetch did not return")
	}

	cached, err := Fetch(ctx, c, SlotSearch, "x", time.Minute, func(context.Context) (string, error) { return "x3", nil })
	require.NoError(t, err)
	assert.Equal(t, "x2", cached, "the cancelled call must not overwrite the fresh entry")
}

func TestConcurrentIdenticalKeysShareCall(t *testing.T) {
	c, _ := newTestCache(0)
	ctx := context.Background()

	var calls atomic.Int32
	release := make(chan struct{})
	fn := func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 7, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Fetch(ctx, c, SlotSearch, "same", time.Minute, fn)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, []int{7, 7}, results)
}

func TestInvalidate(t *testing.T) {
	c, _ := newTestCache(0)
	ctx := context.Background()
	for _, key := range []string{"a", "b"} {
		_, err := Fetch(ctx, c, SlotSearch, key, time.Minute, func(context.Context) (int, error) { return 1, nil })
		require.NoError(t, err)
	}
	_, err := Fetch(ctx, c, SlotDetail, "a", time.Minute, func(context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)

	c.Invalidate(SlotSearch)
	assert.Equal(t, 1, c.Len())
}
