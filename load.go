package tomlconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Load builds a fresh T and applies the configured documents to it: tag
// defaults first, then the base file, then the overlay directory's files in
// lexicographic filename order. The first error aborts the whole load; no
// partial instance is ever returned.
func Load[T any](opts ...Option) (*T, error) {
	o := newOptions(opts)

	cfg := new(T)
	s, v, err := schemaFor(cfg)
	if err != nil {
		return nil, err
	}

	if err := s.applyDefaults(v); err != nil {
		return nil, err
	}

	if o.file != "" {
		if err := loadFile(s, v, o.file, o); err != nil {
			return nil, err
		}
	}
	if o.overlayDir != "" {
		if err := loadOverlays(s, v, o.overlayDir, o); err != nil {
			return nil, err
		}
	}

	// Validation failures are not tied to a single file and carry no file
	// context.
	if s.validator != nil {
		if err := s.validator(cfg); err != nil {
			return nil, &Error{Err: fmt.Errorf("%w: %v", ErrValidation, err)}
		}
	}
	if val, ok := any(cfg).(Validator); ok {
		if err := val.Validate(); err != nil {
			return nil, &Error{Err: fmt.Errorf("%w: %v", ErrValidation, err)}
		}
	}
	if err := s.checkRequired(v); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad[T any](opts ...Option) *T {
	cfg, err := Load[T](opts...)
	if err != nil {
		panic(err)
	}
	return cfg
}

// loadFile parses one document and applies it. Not-found errors propagate
// unwrapped unless IgnoreMissing was set; everything else is annotated with
// the file path.
func loadFile(s *schema, v reflect.Value, path string, o *options) error {
	doc, err := parseFile(path, o.format)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if o.ignoreMissing {
				if o.logger != nil {
					o.logger.Printf("tomlconfig: skipping missing %s", path)
				}
				return nil
			}
			return err
		}
		return fileError(path, err)
	}

	if err := s.apply(v, doc); err != nil {
		return fileError(path, err)
	}
	if o.logger != nil {
		o.logger.Printf("tomlconfig: applied %s", path)
	}
	return nil
}

func loadOverlays(s *schema, v reflect.Value, dir string, o *options) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if o.ignoreMissing && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	// os.ReadDir returns entries sorted by filename, which is the
	// application order.
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if err := loadFile(s, v, filepath.Join(dir, entry.Name()), o); err != nil {
			return err
		}
	}
	return nil
}

// Loader provides hot-reloading on top of Load.
type Loader[T any] struct {
	opts     []Option
	onReload func(old, new any)
	logger   Logger

	mu      sync.RWMutex
	config  *T
	version int64
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewLoader creates a loader for hot-reloadable configuration.
func NewLoader[T any](opts ...Option) *Loader[T] {
	o := newOptions(opts)
	return &Loader[T]{opts: opts, onReload: o.onReload, logger: o.logger}
}

// Load loads the configuration and makes it the current snapshot.
func (l *Loader[T]) Load() (*T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadLocked()
}

func (l *Loader[T]) loadLocked() (*T, error) {
	cfg, err := Load[T](l.opts...)
	if err != nil {
		return nil, err
	}

	l.config = cfg
	l.version++
	return cfg, nil
}

// MustLoad loads configuration or panics.
func (l *Loader[T]) MustLoad() *T {
	cfg, err := l.Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Get returns the current configuration snapshot.
func (l *Loader[T]) Get() *T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.config
}

// Version returns the configuration version. It increments on every
// successful (re)load that changed the configuration.
func (l *Loader[T]) Version() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

// StartWatching watches the base file and overlay directory and reloads on
// changes. A failed reload keeps the previous snapshot.
func (l *Loader[T]) StartWatching() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watcher != nil {
		return nil
	}

	o := newOptions(l.opts)
	if o.file == "" && o.overlayDir == "" {
		return nil
	}

	if l.config == nil {
		// Initial load so Get has a base config; a failure here is
		// retried on the first file event.
		_, _ = l.loadLocked()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the base file's directory, not the file itself, so atomic
	// replaces (write temp + rename) are still seen.
	if o.file != "" {
		if err := w.Add(filepath.Dir(o.file)); err != nil {
			w.Close()
			return err
		}
	}
	if o.overlayDir != "" {
		if err := w.Add(o.overlayDir); err != nil {
			w.Close()
			return err
		}
	}

	l.watcher = w
	l.done = make(chan struct{})
	go l.watch(w, l.done, o)
	return nil
}

// StopWatching stops the file watcher.
func (l *Loader[T]) StopWatching() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watcher == nil {
		return
	}
	close(l.done)
	l.watcher.Close()
	l.watcher = nil
	l.done = nil
}

func (l *Loader[T]) watch(w *fsnotify.Watcher, done chan struct{}, o *options) {
	for {
		select {
		case <-done:
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !relevant(o, ev) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			l.reload()
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			if l.logger != nil {
				l.logger.Printf("tomlconfig: watch error: %v", err)
			}
		}
	}
}

func relevant(o *options, ev fsnotify.Event) bool {
	name := filepath.Clean(ev.Name)
	if o.file != "" && name == filepath.Clean(o.file) {
		return true
	}
	if o.overlayDir != "" && filepath.Dir(name) == filepath.Clean(o.overlayDir) {
		return true
	}
	return false
}

func (l *Loader[T]) reload() {
	l.mu.Lock()
	old := l.config
	cfg, err := Load[T](l.opts...)
	if err != nil {
		l.mu.Unlock()
		if l.logger != nil {
			l.logger.Printf("tomlconfig: reload failed, keeping previous config: %v", err)
		}
		return
	}

	changed := !reflect.DeepEqual(old, cfg)
	if changed {
		l.config = cfg
		l.version++
	}
	l.mu.Unlock()

	if changed && l.onReload != nil {
		l.onReload(old, cfg)
	}
}
