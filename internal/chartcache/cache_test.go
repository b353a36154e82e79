package chartcache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensorplex-labs/momentum/internal/config"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "chart:3:1234:6:150", Key(3, 1234, 6, 150))
	assert.NotEqual(t, Key(1, 1234, 6, 150), Key(2, 1234, 6, 150))
}

func TestMemory_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)

	require.NoError(t, m.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, m.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, m.Set(ctx, "c", []byte("3"), 0))

	_, ok, _ := m.Get(ctx, "a")
	assert.False(t, ok)
	v, ok, _ := m.Get(ctx, "c")
	assert.True(t, ok)
	assert.Equal(t, []byte("3"), v)
	assert.Equal(t, 2, m.Len())

	// overwriting refreshes position
	require.NoError(t, m.Set(ctx, "b", []byte("2b"), 0))
	require.NoError(t, m.Set(ctx, "d", []byte("4"), 0))
	_, ok, _ = m.Get(ctx, "c")
	assert.False(t, ok)
	v, ok, _ = m.Get(ctx, "b")
	assert.True(t, ok)
	assert.Equal(t, []byte("2b"), v)
}

func TestMemory_Expires(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	m := NewMemory(4)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))
	_, ok, _ := m.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok)
	assert.Zero(t, m.Len())
}

func TestCache_GetOrRender(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemory(8), time.Minute)

	var renders atomic.Int32
	render := func() ([]byte, error) {
		renders.Add(1)
		return []byte("png"), nil
	}

	v, hit, err := c.GetOrRender(ctx, "k", render)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []byte("png"), v)

	v, hit, err = c.GetOrRender(ctx, "k", render)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte("png"), v)
	assert.EqualValues(t, 1, renders.Load())
}

func TestCache_RenderErrorNotCached(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemory(8), time.Minute)

	_, _, err := c.GetOrRender(ctx, "k", func() ([]byte, error) {
		return nil, errors.New("render failed")
	})
	require.EqualError(t, err, "render failed")

	v, hit, err := c.GetOrRender(ctx, "k", func() ([]byte, error) {
		return []byte("ok"), nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []byte("ok"), v)
}

func TestCache_CollapsesConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemory(8), time.Minute)

	var renders atomic.Int32
	release := make(chan struct{})
	render := func() ([]byte, error) {
		renders.Add(1)
		<-release
		return []byte("png"), nil
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _, err := c.GetOrRender(ctx, "k", render)
			assert.NoError(t, err)
			assert.Equal(t, []byte("png"), v)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, renders.Load())
}

type brokenBackend struct{}

func (brokenBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (brokenBackend) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func TestCache_BackendFailureFallsThrough(t *testing.T) {
	c := New(brokenBackend{}, time.Minute)

	v, hit, err := c.GetOrRender(context.Background(), "k", func() ([]byte, error) {
		return []byte("png"), nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []byte("png"), v)
	c.Close()
}

func TestNewFromConfig_Memory(t *testing.T) {
	c, err := NewFromConfig(context.Background(),
		config.CacheEnvConfig{CacheTTL: time.Minute, CacheMaxEntries: 4},
		config.RedisEnvConfig{},
	)
	require.NoError(t, err)
	_, ok := c.backend.(*Memory)
	assert.True(t, ok)
	c.Close()
}
