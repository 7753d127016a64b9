package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadFunc receives a freshly loaded and validated configuration.
type ReloadFunc func(*Config) error

// Watcher reloads the configuration file when it changes on disk.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onReload ReloadFunc
	logger   *slog.Logger
	debounce time.Duration

	// OnError, if set, is called when a reload fails to load, validate or
	// apply. Set it before Start.
	OnError func(error)

	mu      sync.Mutex
	running bool
	pending *time.Timer
	stopCh  chan struct{}
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string, onReload ReloadFunc, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     path,
		watcher:  fw,
		onReload: onReload,
		logger:   logger,
		debounce: 500 * time.Millisecond,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. The parent directory is watched because editors
// often replace files by renaming a temp file over them.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.running = true
	w.logger.Info("config watcher started", slog.String("path", w.path))
	go w.loop(ctx)
	return nil
}

// Stop stops the watcher and cancels any pending reload. It is safe to call
// more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	return w.watcher.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.matches(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", slog.String("error", err.Error()))

		case <-w.stopCh:
			return

		case <-ctx.Done():
			w.mu.Lock()
			if w.pending != nil {
				w.pending.Stop()
				w.pending = nil
			}
			w.mu.Unlock()
			return
		}
	}
}

// schedule debounces reloads: each event restarts the timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) matches(name string) bool {
	eventPath, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	configPath, err := filepath.Abs(w.path)
	if err != nil {
		return false
	}
	return eventPath == configPath
}

func (w *Watcher) reload() {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()
	if !running {
		return
	}

	cfg, err := Load(w.path)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		w.logger.Error("config reload failed", slog.String("path", w.path), slog.String("error", err.Error()))
		w.notifyError(err)
		return
	}
	if err := w.onReload(cfg); err != nil {
		w.logger.Error("config reload rejected", slog.String("path", w.path), slog.String("error", err.Error()))
		w.notifyError(err)
		return
	}
	w.logger.Info("config reloaded", slog.String("path", w.path))
}

func (w *Watcher) notifyError(err error) {
	if w.OnError != nil {
		w.OnError(err)
	}
}
