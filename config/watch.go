package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/restful-objects/objects-contract-tests/framework"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher calls a function whenever a config file is written or replaced.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func()
	logger   framework.Logger
	debounce time.Duration
}

// NewWatcher watches the directory containing path, so that editors which replace the file
// instead of writing it in place are still noticed.
func NewWatcher(path string, onChange func(), logger framework.Logger) (*Watcher, error) {
	if logger == nil {
		logger = framework.NullLogger()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", path, err)
	}
	return &Watcher{
		watcher:  watcher,
		path:     abs,
		onChange: onChange,
		logger:   logger,
		debounce: defaultDebounce,
	}, nil
}

// Run delivers change notifications until ctx is cancelled. Bursts of events are collapsed into
// one call, made after the file has been quiet for the debounce interval.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(w.debounce, func() {
					w.logger.Printf("config file %s changed", w.path)
					w.onChange()
				})
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Printf("file watcher error: %s", err)
		}
	}
}
