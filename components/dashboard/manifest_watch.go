package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ManifestWatcher reloads a tile manifest whenever the file changes, so
// operators can add or adjust tiles without restarting the server.
type ManifestWatcher struct {
	registry *Registry
	path     string
	logger   *slog.Logger
	debounce time.Duration
}

// WatchManifest starts watching path and applies every successfully decoded
// revision to the registry. It returns once the initial watch is
// established; reloads continue until ctx is cancelled.
func WatchManifest(ctx context.Context, registry *Registry, path string, logger *slog.Logger) (*ManifestWatcher, error) {
	if registry == nil {
		return nil, fmt.Errorf("dashboard: registry is required to watch manifests")
	}
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("dashboard: start manifest watcher: %w", err)
	}
	// Watch the directory: editors typically replace the file, which would
	// drop a watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("dashboard: watch manifest dir: %w", err)
	}
	w := &ManifestWatcher{
		registry: registry,
		path:     path,
		logger:   logger,
		debounce: 250 * time.Millisecond,
	}
	go w.loop(ctx, watcher)
	return w, nil
}

func (w *ManifestWatcher) loop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(w.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("manifest watcher error", "path", w.path, "error", err)
		case <-pending:
			pending = nil
			if _, err := w.registry.LoadManifestFile(w.path); err != nil {
				// A broken edit keeps the previous revision active.
				w.logger.Warn("manifest reload failed", "path", w.path, "error", err)
				continue
			}
			w.logger.Info("manifest reloaded", "path", w.path)
		}
	}
}
