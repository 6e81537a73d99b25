// Package watch re-runs reconstruction whenever new fragments appear under a
// directory tree and then stay quiet for a settle period.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultSettle is how long fragments must stay untouched before a run.
const DefaultSettle = 2 * time.Second

// RunFunc performs one reconstruction pass over the watched root.
type RunFunc func(ctx context.Context) error

// Watcher watches root and every directory below it.
type Watcher struct {
	root   string
	marker string
	settle time.Duration
	run    RunFunc
	log    zerolog.Logger
	fsw    *fsnotify.Watcher
}

// New creates a Watcher and registers every directory under root. Fragment
// changes made after New returns are seen by Run.
func New(root, marker string, settle time.Duration, run RunFunc, log zerolog.Logger) (*Watcher, error) {
	if marker == "" {
		return nil, errors.New("fragment marker must not be empty")
	}
	if settle <= 0 {
		settle = DefaultSettle
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		root:   root,
		marker: marker,
		settle: settle,
		run:    run,
		log:    log,
		fsw:    fsw,
	}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// addTree watches dir and all directories below it. Subdirectories that
// cannot be read are logged and skipped; only dir itself must succeed.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			w.log.Debug().Err(err).Str("path", path).Msg("watch: skipping unreadable path")
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			if path == dir {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			w.log.Warn().Err(err).Str("dir", path).Msg("watch: cannot watch directory")
		}
		return nil
	})
}

// Run blocks until ctx is done, calling the run function each time fragment
// activity settles. A failed pass is logged and watching continues. Run
// closes the watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	tick := w.settle / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	w.log.Info().Str("root", w.root).Dur("settle", w.settle).Msg("watching for fragments")

	var (
		pending bool
		last    time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.handle(event) {
				pending = true
				last = time.Now()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch: event error")

		case <-ticker.C:
			if !pending || time.Since(last) < w.settle {
				continue
			}
			pending = false
			w.log.Debug().Msg("watch: fragments settled, reconstructing")
			if err := w.run(ctx); err != nil && ctx.Err() == nil {
				w.log.Error().Err(err).Msg("watch: reconstruction pass failed")
			}
		}
	}
}

// handle reports whether event should schedule a pass. New directories are
// watched and always schedule one, since fragments may have landed in them
// before the watch was added.
func (w *Watcher) handle(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.log.Warn().Err(err).Msg("watch: cannot watch new directory")
			}
			return true
		}
	}
	return strings.Contains(filepath.Base(event.Name), w.marker)
}
