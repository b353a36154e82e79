// Package watcher reloads the datasets when their files change on disk.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Reloader is implemented by *viewer.Viewer.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Watcher watches the directories holding the data files, since writers
// usually replace a file by rename, and reloads once events have settled.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	target   Reloader
	files    map[string]struct{}
	dirs     []string
	debounce time.Duration
	pending  time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool

	stats Stats
}

type Stats struct {
	Events        int
	Reloads       int
	Errors        int
	LastEventPath string
	LastReload    time.Time
}

func New(target Reloader, debounce time.Duration, files ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}

	w := &Watcher{
		fsw:      fsw,
		target:   target,
		files:    make(map[string]struct{}, len(files)),
		debounce: debounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	seen := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fsw.Close()
			return nil, errors.Wrapf(err, "resolve %s", f)
		}
		w.files[abs] = struct{}{}

		dir := filepath.Dir(abs)
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			w.dirs = append(w.dirs, dir)
		}
	}

	return w, nil
}

// Start watches in the background until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	for _, dir := range w.dirs {
		if err := w.fsw.Add(dir); err != nil {
			return errors.Wrapf(err, "watch %s", dir)
		}
		log.Info().Str("dir", dir).Msg("watching data directory")
	}

	w.running = true
	go w.run(ctx)
	return nil
}

// Stop ends the event loop, if Start got it going, and releases the
// fsnotify watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}

	if err := w.fsw.Close(); err != nil {
		log.Error().Err(err).Msg("error closing data watcher")
	}
	log.Debug().Msg("data watcher stopped")
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := max(w.debounce/5, 10*time.Millisecond)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("data watcher error")
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.reloadIfSettled(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	if _, ok := w.files[abs]; !ok {
		return
	}

	log.Debug().Str("path", abs).Str("op", event.Op.String()).Msg("data file changed")

	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEventPath = abs
	w.pending = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) reloadIfSettled(ctx context.Context) {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	if err := w.target.Reload(ctx); err != nil {
		log.Error().Err(err).Msg("dataset reload failed, keeping previous datasets")
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
		return
	}

	w.mu.Lock()
	w.stats.Reloads++
	w.stats.LastReload = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}
