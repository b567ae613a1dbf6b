package tui

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/leaptable/internal/loader"
)

const defaultDebounce = 100 * time.Millisecond

// Watcher reloads a workbook file whenever it changes on disk.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	watcher  *fsnotify.Watcher

	// reloading serializes reloads fired by overlapping timers.
	reloading sync.Mutex
}

// NewWatcher watches the workbook at path. The parent directory is watched so
// that editors replacing the file on save are still seen.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:     abs,
		debounce: defaultDebounce,
		logger:   logger.With("workbook", abs),
		watcher:  fw,
	}, nil
}

// Run reloads and reconciles the workbook after every burst of writes and
// hands it to onReload. A workbook that fails to load is logged and skipped.
// Run returns when ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, onReload func(*loader.Workbook)) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				if ctx.Err() != nil {
					return
				}
				w.reload(onReload)
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload(onReload func(*loader.Workbook)) {
	w.reloading.Lock()
	defer w.reloading.Unlock()

	wb, err := loader.Load(w.path)
	if err != nil {
		w.logger.Warn("reload failed, keeping previous state", "error", err)
		return
	}
	wb.Reconcile()
	w.logger.Debug("change detected", "file", filepath.Base(w.path))
	onReload(wb)
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
