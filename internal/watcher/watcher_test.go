package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type countingReloader struct {
	calls atomic.Int32
	err   error
}

func (r *countingReloader) Reload(context.Context) error {
	r.calls.Add(1)
	return r.err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWatcher_ReloadsOnceAfterBurst(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	matches := filepath.Join(dir, "df_matches.parquet")
	store := filepath.Join(dir, "momentum_data.h5")
	writeFile(t, matches, "v1")
	writeFile(t, store, "v1")

	target := &countingReloader{}
	w, err := New(target, 50*time.Millisecond, matches, store)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	for i := range 5 {
		writeFile(t, store, "v"+string(rune('2'+i)))
	}
	writeFile(t, matches, "v2")

	assert.Eventually(t, func() bool { return target.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.EqualValues(t, 1, target.calls.Load())

	stats := w.Stats()
	assert.Equal(t, 1, stats.Reloads)
	assert.GreaterOrEqual(t, stats.Events, 2)

	w.Stop()
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	store := filepath.Join(dir, "momentum_data.h5")
	writeFile(t, store, "v1")

	target := &countingReloader{}
	w, err := New(target, 20*time.Millisecond, store)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	writeFile(t, filepath.Join(dir, "notes.txt"), "hello")
	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, target.calls.Load())

	w.Stop()
}

func TestWatcher_ReloadErrorIsCounted(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	store := filepath.Join(dir, "momentum_data.h5")
	writeFile(t, store, "v1")

	target := &countingReloader{err: errors.New("truncated file")}
	w, err := New(target, 20*time.Millisecond, store)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	writeFile(t, store, "v2")
	assert.Eventually(t, func() bool { return w.Stats().Errors >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, w.Stats().Reloads)

	w.Stop()
}

func TestWatcher_StopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	store := filepath.Join(dir, "momentum_data.h5")
	writeFile(t, store, "v1")

	w, err := New(&countingReloader{}, 20*time.Millisecond, store)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()

	select {
	case <-w.doneCh:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop on context cancellation")
	}
	w.Stop()
}

func TestWatcher_StopAfterFailedStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	missing := filepath.Join(t.TempDir(), "missing", "df_matches.parquet")
	w, err := New(&countingReloader{}, 10*time.Millisecond, missing)
	require.NoError(t, err)
	require.Error(t, w.Start(context.Background()))

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked after a failed Start")
	}
}
