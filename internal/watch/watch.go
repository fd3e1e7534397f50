// Package watch reruns a build whenever files under the watched source
// directories change.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/doxic/internal/foundation/errors"
	"git.home.luguber.info/inful/doxic/internal/logfields"
)

// BuildFunc performs one build. Errors are logged and watching continues.
type BuildFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	// Patterns are the source patterns of the run; their static prefixes
	// become the watched roots.
	Patterns []string
	// Extra lists additional files or directories to watch, such as a
	// custom template or the project configuration file.
	Extra []string
	// Exclude lists directories whose events are ignored, typically the
	// output directory.
	Exclude []string
	Delay   time.Duration
	Logger  *slog.Logger
}

// Watcher watches source roots and serializes rebuilds.
type Watcher struct {
	opts    Options
	logger  *slog.Logger
	exclude []string
}

// New returns a Watcher for opts.
func New(opts Options) *Watcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	exclude := make([]string, 0, len(opts.Exclude))
	for _, e := range opts.Exclude {
		if abs, err := filepath.Abs(e); err == nil {
			exclude = append(exclude, abs)
		}
	}
	return &Watcher{opts: opts, logger: logger, exclude: exclude}
}

// Roots returns the directories watched for the configured patterns, sorted
// and without duplicates. Literal file patterns contribute their parent.
func Roots(patterns []string) []string {
	seen := map[string]bool{}
	var roots []string
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if !seen[dir] {
			seen[dir] = true
			roots = append(roots, dir)
		}
	}
	for _, p := range patterns {
		if !hasMeta(p) {
			add(filepath.Dir(p))
			continue
		}
		base, _ := doublestar.SplitPattern(filepath.ToSlash(p))
		add(filepath.FromSlash(base))
	}
	sort.Strings(roots)
	return roots
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{\\")
}

// Run watches until ctx is done. build runs once the watcher is set up and
// again after every settled burst of changes. At most one build runs at a
// time and at most one more is queued behind it.
func (w *Watcher) Run(ctx context.Context, build BuildFunc) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create file watcher").Build()
	}
	defer func() { _ = fw.Close() }()

	for _, root := range Roots(w.opts.Patterns) {
		if err := w.addDirsRecursive(fw, root); err != nil {
			return err
		}
	}
	for _, extra := range w.opts.Extra {
		if extra == "" {
			continue
		}
		if err := fw.Add(extra); err != nil {
			w.logger.Warn("Failed to watch path", logfields.Path(extra), logfields.Error(err))
		}
	}

	deb := NewDebouncer(w.opts.Delay)
	defer deb.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.buildLoop(ctx, deb.C(), build)
	}()
	deb.fire()

	for {
		select {
		case <-ctx.Done():
			<-done
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				<-done
				return nil
			}
			if w.handleEvent(fw, ev) {
				deb.Trigger()
			}
		case werr, ok := <-fw.Errors:
			if !ok {
				<-done
				return nil
			}
			w.logger.Warn("File watcher error", logfields.Error(werr))
		}
	}
}

// buildLoop consumes debounced signals one at a time. The one-slot buffer in
// the debouncer is the pending marker while a build is running.
func (w *Watcher) buildLoop(ctx context.Context, signals <-chan struct{}, build BuildFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-signals:
			start := time.Now()
			if err := build(ctx); err != nil {
				w.logger.Error("Rebuild failed", logfields.Error(err))
				continue
			}
			w.logger.Debug("Rebuild complete", logfields.Elapsed(time.Since(start)))
		}
	}
}

// handleEvent reports whether ev should trigger a rebuild. New directories
// are added to the watch list.
func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event) bool {
	if w.ignored(ev.Name) {
		return false
	}
	if ev.Op&fsnotify.Create != 0 {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if err := w.addDirsRecursive(fw, ev.Name); err != nil {
				w.logger.Warn("Failed to watch new directory", logfields.Path(ev.Name), logfields.Error(err))
			}
		}
	}
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	return true
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (isHidden(d.Name()) || w.excluded(path)) {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch directory").
			WithContext("path", root).
			Build()
	}
	return nil
}

func (w *Watcher) ignored(path string) bool {
	return ShouldIgnore(path) || w.excluded(path)
}

func (w *Watcher) excluded(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, e := range w.exclude {
		if abs == e || strings.HasPrefix(abs, e+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".") && name != ".."
}

// ShouldIgnore reports whether a change to path is editor or OS noise.
func ShouldIgnore(path string) bool {
	base := filepath.Base(path)
	switch {
	case isHidden(base):
		return true
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
