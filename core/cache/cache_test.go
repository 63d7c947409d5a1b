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
	"go.uber.org/goleak"
)

type payload struct {
	Items []string `json:"items"`
	Count int      `json:"count"`
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))

	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)

	now = now.Add(time.Minute)
	_, ok, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len(), "expired entry is dropped on read")
}

func TestMemory_Purge(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_ = m.Set(ctx, "app:releases:a", []byte("1"), time.Minute)
	_ = m.Set(ctx, "app:releases:b", []byte("2"), time.Minute)
	_ = m.Set(ctx, "app:other", []byte("3"), time.Minute)

	require.NoError(t, m.Purge(ctx, "app:releases:"))

	assert.Equal(t, 1, m.Len())
	_, ok, _ := m.Get(ctx, "app:other")
	assert.True(t, ok)
}

func TestGetOrLoad_CachesResult(t *testing.T) {
	c := New(NewMemory(), "test:", time.Minute, nil)
	ctx := context.Background()

	var loads atomic.Int32
	load := func(ctx context.Context) (payload, error) {
		loads.Add(1)
		return payload{Items: []string{"a", "b"}, Count: 2}, nil
	}

	first, fresh, err := GetOrLoad(ctx, c, "k", load)
	require.NoError(t, err)
	assert.True(t, fresh)

	second, fresh, err := GetOrLoad(ctx, c, "k", load)
	require.NoError(t, err)
	assert.False(t, fresh)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), loads.Load())
}

func TestGetOrLoad_CollapsesConcurrentMisses(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := New(NewMemory(), "test:", time.Minute, nil)

	var loads atomic.Int32
	release := make(chan struct{})
	load := func(ctx context.Context) (int, error) {
		loads.Add(1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := GetOrLoad(context.Background(), c, "hot", load)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestGetOrLoad_ErrorsAreNotCached(t *testing.T) {
	c := New(NewMemory(), "test:", time.Minute, nil)
	ctx := context.Background()
	boom := errors.New("boom")

	_, _, err := GetOrLoad(ctx, c, "k", func(ctx context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	v, fresh, err := GetOrLoad(ctx, c, "k", func(ctx context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, 7, v)
}

func TestGetOrLoad_ZeroTTLDisablesCaching(t *testing.T) {
	backend := NewMemory()
	c := New(backend, "test:", 0, nil)

	var loads atomic.Int32
	load := func(ctx context.Context) (int, error) {
		loads.Add(1)
		return 1, nil
	}

	for range 3 {
		_, fresh, err := GetOrLoad(context.Background(), c, "k", load)
		require.NoError(t, err)
		assert.True(t, fresh)
	}

	assert.Equal(t, int32(3), loads.Load())
	assert.Equal(t, 0, backend.Len())
	assert.False(t, c.Enabled())
}

type failingBackend struct{}

func (failingBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("read failed")
}

func (failingBackend) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("write failed")
}

func (failingBackend) Purge(context.Context, string) error {
	return errors.New("purge failed")
}

func TestGetOrLoad_BackendFailureFallsThrough(t *testing.T) {
	c := New(failingBackend{}, "test:", time.Minute, nil)

	v, fresh, err := GetOrLoad(context.Background(), c, "k", func(ctx context.Context) (string, error) {
		return "loaded", nil
	})
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, "loaded", v)
}

func TestCache_PurgeNamespace(t *testing.T) {
	backend := NewMemory()
	c := New(backend, "test:", time.Minute, nil)
	ctx := context.Background()

	_, _, _ = GetOrLoad(ctx, c, "releases:a", func(ctx context.Context) (int, error) { return 1, nil })
	_, _, _ = GetOrLoad(ctx, c, "changes:a", func(ctx context.Context) (int, error) { return 2, nil })

	require.NoError(t, c.Purge(ctx, "releases:"))
	assert.Equal(t, 1, backend.Len())
}

func TestOpen(t *testing.T) {
	c, err := Open(Config{Driver: DriverMemory, TTL: time.Minute}, nil)
	require.NoError(t, err)
	assert.True(t, c.Enabled())

	_, err = Open(Config{Driver: "memcached"}, nil)
	assert.Error(t, err)
}

func TestOpen_RedisUnreachable(t *testing.T) {
	_, err := Open(Config{Driver: DriverRedis, RedisAddr: "127.0.0.1:1"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}

func TestGetOrLoad_CancelledCallerDoesNotFailWaiters(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := New(NewMemory(), "test:", time.Minute, nil)

	started := make(chan struct{})
	release := make(chan struct{})
	var loadErr atomic.Value
	load := func(ctx context.Context) (int, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			loadErr.Store(err)
			return 0, err
		}
		return 42, nil
	}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstDone := make(chan error, 1)
	go func() {
		_, _, err := GetOrLoad(firstCtx, c, "hot", load)
		firstDone <- err
	}()
	<-started

	secondDone := make(chan int, 1)
	go func() {
		v, _, err := GetOrLoad(context.Background(), c, "hot", load)
		assert.NoError(t, err)
		secondDone <- v
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstDone, context.Canceled)

	close(release)
	assert.Equal(t, 42, <-secondDone)
	assert.Nil(t, loadErr.Load())
}

func TestGetOrLoad_SharedLoadIsBounded(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, err := Open(Config{Driver: DriverMemory, TTL: time.Minute, LoadTimeout: 10 * time.Millisecond}, nil)
	require.NoError(t, err)

	_, _, err = GetOrLoad(context.Background(), c, "slow", func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCache_CloseMemory(t *testing.T) {
	c := New(NewMemory(), "test:", time.Minute, nil)
	assert.NoError(t, c.Close())

	var nilCache *Cache
	assert.NoError(t, nilCache.Close())
}
