package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/wltile/wltile/internal/logging"
)

// Watcher reloads a config file from disk whenever it changes, the same
// way the teacher's internal/git.FileWatcher debounces fsnotify events
// before triggering a refresh (grounded on
// andyrewlee-amux/internal/git/watcher.go). The core never calls this
// directly — it is wired up by the embedding reactor (here, the debug
// command) since the core itself never watches the filesystem.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func(*Config)
	debounce time.Duration
	last     time.Time
}

// NewWatcher starts watching the directory containing path for changes.
// Watching the directory (not the file) survives editors that replace
// the file via rename, the same rationale the teacher's FileWatcher
// gives for watching .git rather than its index file directly.
func NewWatcher(path string, onChange func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return &Watcher{
		watcher:  fw,
		path:     filepath.Clean(path),
		onChange: onChange,
		debounce: 200 * time.Millisecond,
	}, nil
}

// Run processes filesystem events until ctx is done or the watcher is
// closed, reloading and invoking onChange whenever path itself changes.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if time.Since(w.last) < w.debounce {
				continue
			}
			w.last = time.Now()
			cfg, err := Load(w.path)
			if err != nil {
				logging.Warn("config: reload of %s failed: %v", w.path, err)
				continue
			}
			if w.onChange != nil {
				w.onChange(cfg)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				logging.Warn("config: watcher error: %v", err)
			}
		}
	}
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
