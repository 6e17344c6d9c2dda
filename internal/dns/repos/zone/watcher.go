package zone

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/haukened/ktdns/internal/dns/common/log"
	"github.com/haukened/ktdns/internal/dns/domain"
)

// DefaultDebounce is how long the watcher waits after the last relevant event
// before reloading.
const DefaultDebounce = 250 * time.Millisecond

// ReloadFunc receives a freshly loaded zone set. Returning an error keeps the
// previously served zones in place.
type ReloadFunc func(zones []domain.Zone) error

// Watcher reloads a zone directory when matching sources change.
type Watcher struct {
	dir      string
	pattern  string
	debounce time.Duration
	reload   ReloadFunc
	logger   log.Logger
}

// WatcherOptions configures a Watcher.
type WatcherOptions struct {
	Dir      string
	Pattern  string
	Debounce time.Duration
	Reload   ReloadFunc
	Logger   log.Logger
}

// NewWatcher returns a Watcher for opts.Dir. It does nothing until Run is called.
func NewWatcher(opts WatcherOptions) (*Watcher, error) {
	if opts.Reload == nil {
		return nil, fmt.Errorf("zone watcher requires a reload function")
	}
	if _, err := filepath.Match(opts.Pattern, ""); err != nil {
		return nil, fmt.Errorf("bad zone pattern %q: %w", opts.Pattern, err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	return &Watcher{
		dir:      opts.Dir,
		pattern:  opts.Pattern,
		debounce: opts.Debounce,
		reload:   opts.Reload,
		logger:   opts.Logger,
	}, nil
}

// Run watches the directory until ctx is cancelled. Load failures are logged
// and the old zones keep serving; only watcher setup errors are returned.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create zone watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info(map[string]any{"dir": w.dir, "pattern": w.pattern}, "Watching zone directory")

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug(map[string]any{"file": ev.Name, "op": ev.Op.String()}, "Zone source changed")
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(map[string]any{"error": err.Error()}, "Zone watcher error")
		case <-timer.C:
			w.reloadNow()
		}
	}
}

// relevant reports whether ev touches a file the loader would read.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	matched, err := filepath.Match(w.pattern, filepath.Base(ev.Name))
	return err == nil && matched
}

func (w *Watcher) reloadNow() {
	zones, err := LoadZoneDirectory(w.dir, w.pattern)
	if err == nil {
		err = w.reload(zones)
	}
	if err != nil {
		w.logger.Error(map[string]any{"dir": w.dir, "error": err.Error()}, "Zone reload failed, keeping current zones")
		return
	}
	w.logger.Info(map[string]any{"dir": w.dir, "zones": len(zones)}, "Zones reloaded")
}
