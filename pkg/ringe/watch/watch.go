// Package watch re-scans C sources when they change on disk.
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sambeau/ringe/pkg/ringe/export"
	"github.com/sambeau/ringe/pkg/ringe/format"
	"github.com/sambeau/ringe/pkg/ringe/ringe"
	"github.com/sambeau/ringe/pkg/ringe/source"
)

// Options configure a Watcher.
type Options struct {
	Debounce   time.Duration // minimum gap between scans of the same file
	Extensions []string      // lower-case, with leading dot
	Scan       ringe.Options
	Index      *export.Index // optional; scans are written here when set
}

// Watcher monitors directories and re-tokenizes changed sources
type Watcher struct {
	watcher *fsnotify.Watcher
	dirs    []string
	opts    Options
	stdout  io.Writer
	stderr  io.Writer

	mu         sync.Mutex
	lastChange map[string]time.Time
	scans      uint64
}

// New creates a watcher for dirs. Nothing is watched until Start.
func New(dirs []string, opts Options, stdout, stderr io.Writer) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if opts.Debounce <= 0 {
		opts.Debounce = 100 * time.Millisecond
	}
	exts := make([]string, len(opts.Extensions))
	for i, ext := range opts.Extensions {
		exts[i] = strings.ToLower(ext)
	}
	opts.Extensions = exts

	return &Watcher{
		watcher:    fsWatcher,
		dirs:       dirs,
		opts:       opts,
		stdout:     stdout,
		stderr:     stderr,
		lastChange: make(map[string]time.Time),
	}, nil
}

// Start begins watching and returns once the event loop is running. The
// loop ends when ctx is cancelled or the watcher is closed.
func (w *Watcher) Start(ctx context.Context) error {
	watched := 0
	for _, dir := range w.dirs {
		if err := w.watchDirRecursive(dir); err != nil {
			w.logError("failed to watch %s: %v", dir, err)
			continue
		}
		watched++
		w.logInfo("watching: %s", dir)
	}
	if watched == 0 {
		return fmt.Errorf("no directories could be watched")
	}

	go w.eventLoop(ctx)

	return nil
}

// watchDirRecursive adds a directory and its subdirectories to the watch list
func (w *Watcher) watchDirRecursive(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only handle write and create events
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.watchDirRecursive(event.Name); err != nil {
						w.logError("failed to watch %s: %v", event.Name, err)
					}
					continue
				}
			}

			if !w.settle(event.Name, time.Now()) {
				continue
			}

			w.handleFileChange(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logError("watcher error: %v", err)
		}
	}
}

// settle debounces bursts of events for one path. It reports whether a
// scan should run at now.
func (w *Watcher) settle(path string, now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if last, ok := w.lastChange[path]; ok && now.Sub(last) < w.opts.Debounce {
		return false
	}
	w.lastChange[path] = now
	return true
}

// matches reports whether path has one of the watched extensions.
func (w *Watcher) matches(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	return slices.Contains(w.opts.Extensions, strings.ToLower(source.BaseExt(path)))
}

// handleFileChange re-tokenizes path and reports the outcome.
func (w *Watcher) handleFileChange(ctx context.Context, path string) {
	if !w.matches(path) {
		return
	}

	res, err := ringe.TokenizeFile(path, w.opts.Scan)
	if err != nil {
		w.logError("%v", err)
		return
	}

	w.mu.Lock()
	w.scans++
	w.mu.Unlock()

	if len(res.Errors) > 0 {
		format.Diagnostics(w.stderr, res.Text, res.Errors)
	}
	w.logInfo("%s", res.Summary())

	if w.opts.Index != nil {
		if err := w.opts.Index.Write(ctx, res.File, res.Tokens, res.Errors); err != nil {
			w.logError("failed to index %s: %v", res.File, err)
		}
	}
}

// Scans returns how many files have been re-tokenized.
func (w *Watcher) Scans() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scans
}

// Close stops the watcher
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) logInfo(msg string, args ...any) {
	fmt.Fprintf(w.stdout, "[WATCH] "+msg+"\n", args...)
}

func (w *Watcher) logError(msg string, args ...any) {
	fmt.Fprintf(w.stderr, "[WATCH ERROR] "+msg+"\n", args...)
}
