package diagnostic

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"ritual-backend/internal/shared/telemetry"
)

// WatchSeedFile re-applies the seed file each time it is written or replaced,
// until ctx is done. The parent directory is watched so editors that save by
// rename are picked up too.
func WatchSeedFile(ctx context.Context, path string, apply func(Tables) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				reloadSeed(target, apply)
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				telemetry.Error("diagnostic.seed.watch_error", map[string]any{"path": target, "error": werr.Error()})
			}
		}
	}()
	return nil
}

func reloadSeed(path string, apply func(Tables) error) {
	tables, err := LoadSeedFile(path)
	if err == nil {
		err = apply(tables)
	}
	if err != nil {
		telemetry.Error("diagnostic.seed.reload_failed", map[string]any{"path": path, "error": err.Error()})
		return
	}
	telemetry.Info("diagnostic.seed.reloaded", map[string]any{"path": path, "rules": len(tables.Rules)})
}
