package search

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchWeights watches the configuration file at path and applies ranking
// weight changes to eng without a restart, until ctx is cancelled. load is
// called after each (debounced) change and should re-read just the search
// section of the config.
//
// The parent directory is watched rather than the file itself: most editors
// replace the file on save, which would otherwise drop the watch.
func WatchWeights(ctx context.Context, path string, eng *Engine, load func() (Weights, error), logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}

	logger.Info("weights watcher: started", slog.String("config", path))

	// reloadTimer debounces bursts of write events from editors.
	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("weights watcher: stopped")
			return nil

		case <-reloadCh:
			weights, loadErr := load()
			if loadErr != nil {
				logger.Warn("weights watcher: reload failed", slog.String("error", loadErr.Error()))
				continue
			}
			eng.SetWeights(weights)
			logger.Info("weights watcher: weights updated",
				slog.Float64("title_boost", weights.Title),
				slog.Float64("content_boost", weights.Content))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("weights watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
