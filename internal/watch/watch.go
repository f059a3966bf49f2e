// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch converts Markdown files when they are saved and seeds new
// ones with frontmatter.
package watch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"

	"github.com/pdiddy/mdtopdf/internal/convert"
	"github.com/pdiddy/mdtopdf/internal/frontmatter"
	"github.com/pdiddy/mdtopdf/pkg/types"
)

// DefaultDebounce collapses the burst of write events editors emit per save.
const DefaultDebounce = 300 * time.Millisecond

// ConfigSource returns a fresh configuration snapshot. It is called once per
// handled event.
type ConfigSource func() (types.ConversionConfig, error)

// Watcher reacts to file system events under a set of directories.
// Conversions for different files run concurrently and are not ordered.
type Watcher struct {
	conv     *convert.Converter
	config   ConfigSource
	clock    clockwork.Clock
	log      *slog.Logger
	out      io.Writer
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]clockwork.Timer
	// known holds Markdown files seen during this session. Entries are never
	// removed, so a save that renames a temp or backup file over the
	// original is not mistaken for a new document.
	known map[string]bool
	wg    sync.WaitGroup
}

// New creates a Watcher. Status lines for each conversion go to out.
func New(conv *convert.Converter, config ConfigSource, clock clockwork.Clock, log *slog.Logger, out io.Writer) *Watcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{
		conv:     conv,
		config:   config,
		clock:    clock,
		log:      log,
		out:      out,
		debounce: DefaultDebounce,
		pending:  make(map[string]clockwork.Timer),
		known:    make(map[string]bool),
	}
}

// Run watches dirs and their subdirectories until ctx is cancelled, then
// waits for in-flight conversions to finish.
func (w *Watcher) Run(ctx context.Context, dirs []string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fsw.Close()

	for _, dir := range dirs {
		if err := w.addTree(fsw, dir); err != nil {
			return err
		}
	}
	w.log.Info("Watching for Markdown changes", "dirs", dirs)

	defer w.Wait()
	for {
		select {
		case <-ctx.Done():
			w.stopPending()
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := w.addTree(fsw, event.Name); err != nil {
					w.log.Warn("Cannot watch new directory", "dir", event.Name, "error", err)
				}
				continue
			}
			w.Handle(ctx, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("File watcher error", "error", err)
		}
	}
}

// Handle processes one file system event. A Create of a Markdown file that
// was not seen before and has no content yet is a new document and gets
// frontmatter when addFrontmatter is set. Writes, and Creates of known or non-empty files
// (editors that save by renaming a temp file over the original), schedule
// a debounced conversion when autoSaveEnabled is set.
func (w *Watcher) Handle(ctx context.Context, event fsnotify.Event) {
	if !IsMarkdown(event.Name) {
		return
	}

	cfg, err := w.config()
	if err != nil {
		w.log.Error("Cannot load configuration", "error", err)
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		if !w.track(event.Name) && !hasContent(event.Name) {
			w.seed(event.Name, cfg)
			return
		}
		if cfg.AutoSaveEnabled {
			w.schedule(ctx, event.Name)
		}
	case event.Has(fsnotify.Write):
		w.track(event.Name)
		if cfg.AutoSaveEnabled {
			w.schedule(ctx, event.Name)
		}
	}
}

// track marks path as known and reports whether it already was.
func (w *Watcher) track(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	seen := w.known[path]
	w.known[path] = true
	return seen
}

func (w *Watcher) seed(path string, cfg types.ConversionConfig) {
	added, err := frontmatter.Insert(path, cfg, w.clock)
	if err != nil {
		fmt.Fprintf(w.out, "Failed to add frontmatter to new Markdown file: %s (%v)\n", path, err)
		return
	}
	if added {
		fmt.Fprintf(w.out, "Frontmatter added to new Markdown file: %s\n", path)
	}
}

// schedule (re)starts the debounce timer for path. The conversion reads its
// own configuration snapshot when the timer fires.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok && t.Stop() {
		w.wg.Done()
	}

	w.wg.Add(1)
	var timer clockwork.Timer
	timer = w.clock.AfterFunc(w.debounce, func() {
		defer w.wg.Done()
		w.mu.Lock()
		if w.pending[path] == timer {
			delete(w.pending, path)
		}
		w.mu.Unlock()

		cfg, err := w.config()
		if err != nil {
			w.log.Error("Cannot load configuration", "error", err)
			return
		}
		convert.ConvertFile(ctx, w.conv, path, cfg, w.out)
	})
	w.pending[path] = timer
}

// stopPending cancels conversions that have not started yet.
func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.pending, path)
	}
}

// Wait blocks until every scheduled conversion has finished.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

// IsMarkdown reports whether path has a Markdown extension.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func hasContent(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

// addTree adds root and every directory below it, skipping hidden ones.
// Markdown files found on the way are recorded as known.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if IsMarkdown(path) {
				w.track(path)
			}
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
