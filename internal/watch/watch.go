// Package watch regenerates shader headers when shader sources change.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/shadergen/internal/manifest"
)

// DefaultDebounce is the quiet period after the last event before a rebuild.
const DefaultDebounce = 100 * time.Millisecond

// Options configure a Watcher.
type Options struct {
	Root       string
	Manifest   string
	OutputName string
	Debounce   time.Duration
}

// Watcher runs a rebuild function whenever a file under the watched shader
// directories changes. fsnotify does not recurse, so every sub-directory is
// added on its own.
type Watcher struct {
	opts    Options
	rebuild func() error
	log     *zap.Logger
	fsw     *fsnotify.Watcher
	watched map[string]bool
}

// New creates a Watcher. rebuild is called once per debounced batch of events.
func New(opts Options, rebuild func() error, log *zap.Logger) (*Watcher, error) {
	if opts.Manifest == "" {
		opts.Manifest = manifest.DefaultName
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		opts:    opts,
		rebuild: rebuild,
		log:     log,
		fsw:     fsw,
		watched: make(map[string]bool),
	}, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run watches until ctx is done. Rebuild errors are logged and watching
// continues.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.sync(); err != nil {
		return err
	}
	w.log.Info("watching shader sources", zap.String("root", w.opts.Root), zap.Int("dirs", len(w.watched)))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.ignore(evt) {
				continue
			}
			w.log.Debug("shader source changed", zap.String("file", evt.Name), zap.Stringer("op", evt.Op))
			if evt.Has(fsnotify.Remove) || evt.Has(fsnotify.Rename) {
				// fsnotify drops the watch itself; forget it so a recreated
				// directory is added again.
				delete(w.watched, filepath.Clean(evt.Name))
			}
			if evt.Has(fsnotify.Create) {
				if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
					if err := w.addTree(evt.Name); err != nil {
						w.log.Warn("cannot watch new directory", zap.String("dir", evt.Name), zap.Error(err))
					}
				}
			}
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-fire:
			fire = nil
			// The manifest may list new directories.
			if err := w.sync(); err != nil {
				w.log.Warn("cannot refresh watched directories", zap.Error(err))
			}
			start := time.Now()
			if err := w.rebuild(); err != nil {
				w.log.Error("regeneration failed", zap.Error(err))
				continue
			}
			w.log.Info("regenerated shader headers", zap.Duration("took", time.Since(start)))
		}
	}
}

// Watched returns the number of directories currently watched.
func (w *Watcher) Watched() int {
	return len(w.watched)
}

// sync adds the source root and every manifest directory tree.
func (w *Watcher) sync() error {
	if err := w.add(w.opts.Root); err != nil {
		return err
	}
	m, err := manifest.Load(os.DirFS(w.opts.Root), w.opts.Manifest)
	if err != nil {
		return err
	}
	for _, dir := range m.Dirs {
		p := filepath.Join(w.opts.Root, filepath.FromSlash(dir))
		if err := w.addTree(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				w.log.Warn("manifest directory does not exist", zap.String("dir", dir))
				continue
			}
			return err
		}
	}
	return nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.add(p)
	})
}

func (w *Watcher) add(dir string) error {
	dir = filepath.Clean(dir)
	if w.watched[dir] {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return err
	}
	w.watched[dir] = true
	return nil
}

// ignore drops events that must not trigger a rebuild: our own output files
// and permission-only changes.
func (w *Watcher) ignore(evt fsnotify.Event) bool {
	if w.opts.OutputName != "" && filepath.Base(evt.Name) == w.opts.OutputName {
		return true
	}
	return evt.Op == fsnotify.Chmod
}
