// Package watcher converts base64 PCM files dropped into a directory.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type implWatcher struct {
	inputDir      string
	extension     string
	handler       EventHandler
	logger        *slog.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	settle        time.Duration
	semaphore     chan struct{}
	wg            sync.WaitGroup
}

// Start monitors the input directory until ctx is done. It waits for running
// handlers before returning.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.InfoContext(ctx, "file watcher started",
		"dir", w.inputDir, "extension", w.extension, "max_concurrent", w.maxConcurrent)

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "waiting for ongoing conversions to complete")
			w.wg.Wait()
			w.logger.InfoContext(ctx, "file watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				w.wg.Wait()
				return fmt.Errorf("watcher events channel closed")
			}

			if !event.Has(fsnotify.Create) {
				continue
			}

			if !w.matches(event.Name) {
				w.logger.DebugContext(ctx, "ignoring file", "path", event.Name)
				continue
			}

			w.logger.InfoContext(ctx, "new input detected", "path", event.Name)

			select {
			case w.semaphore <- struct{}{}:
				w.wg.Add(1)
				go w.handle(ctx, event.Name)
			case <-ctx.Done():
				w.wg.Wait()
				return ctx.Err()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.wg.Wait()
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.ErrorContext(ctx, "watcher error", "error", err)
		}
	}
}

func (w *implWatcher) handle(ctx context.Context, path string) {
	defer w.wg.Done()
	defer func() { <-w.semaphore }()

	// give the writer a chance to finish
	select {
	case <-time.After(w.settle):
	case <-ctx.Done():
		return
	}

	if err := w.handler(ctx, path); err != nil {
		w.logger.ErrorContext(ctx, "failed to convert", "path", path, "error", err)
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) matches(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}

	return w.extension == "" || strings.ToLower(filepath.Ext(base)) == w.extension
}
