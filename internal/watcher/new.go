package watcher

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultSettle = 500 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Extension selects the files to handle, e.g. ".b64".
	Extension string
	// MaxConcurrent bounds the handlers running at once. Defaults to 2.
	MaxConcurrent int
	// Settle is the delay between a file appearing and its handling.
	Settle time.Duration
	Logger *slog.Logger
}

// New creates a new Watcher instance with concurrency control
func New(inputDir string, handler EventHandler, opts Options) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	if opts.Settle <= 0 {
		opts.Settle = defaultSettle
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &implWatcher{
		inputDir:      inputDir,
		extension:     strings.ToLower(opts.Extension),
		handler:       handler,
		logger:        opts.Logger,
		watcher:       watcher,
		maxConcurrent: opts.MaxConcurrent,
		settle:        opts.Settle,
		semaphore:     make(chan struct{}, opts.MaxConcurrent),
	}, nil
}
