package serial

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WaitForPath blocks until path exists or ctx is done. It watches the parent
// directory, so the directory itself must exist.
func WaitForPath(ctx context.Context, path string) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	// The node may have appeared before the watch was in place.
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watch %s: watcher closed", dir)
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Chmod) {
				continue
			}
			if _, err := os.Stat(path); err == nil {
				return nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watch %s: watcher closed", dir)
			}
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
}
