package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// PolicyWatcher reloads a policy file into a Registry when it changes.
// Invalid files are logged and ignored; the active policy stays in place.
type PolicyWatcher struct {
	path     string
	registry *Registry
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	onChange func(Policy)
	onReject func(error)
}

// NewPolicyWatcher watches path. onChange, if set, runs after every
// successful activation.
func NewPolicyWatcher(path string, registry *Registry, logger *slog.Logger, onChange func(Policy)) (*PolicyWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create policy watcher: %w", err)
	}
	// Editors replace files by rename, so watch the directory and filter.
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch policy directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PolicyWatcher{
		path:     filepath.Clean(path),
		registry: registry,
		logger:   logger,
		watcher:  w,
		onChange: onChange,
	}, nil
}

// OnReject registers a hook for files that failed to load or validate.
func (w *PolicyWatcher) OnReject(fn func(error)) {
	w.onReject = fn
}

// Run blocks until ctx is cancelled or the watcher is closed.
func (w *PolicyWatcher) Run(ctx context.Context) {
	defer w.watcher.Close()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.Reload(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WarnContext(ctx, "policy watcher error", "error", err)
		case <-ctx.Done():
			return
		}
	}
}

// Reload loads the file and installs it. It reports whether a policy was
// activated; rewriting the active policy unchanged activates nothing.
func (w *PolicyWatcher) Reload(ctx context.Context) bool {
	p, err := LoadPolicyFile(w.path)
	if err != nil {
		w.logger.WarnContext(ctx, "policy reload rejected", "path", w.path, "error", err)
		w.reject(err)
		return false
	}
	if w.registry.Active().Equal(p) {
		return false
	}
	if err := w.registry.Install(p); err != nil {
		w.logger.WarnContext(ctx, "policy reload rejected", "path", w.path, "version", p.Version(), "error", err)
		w.reject(err)
		return false
	}
	w.logger.InfoContext(ctx, "policy activated", "path", w.path, "version", p.Version())
	if w.onChange != nil {
		w.onChange(p)
	}
	return true
}

func (w *PolicyWatcher) reject(err error) {
	if w.onReject != nil {
		w.onReject(err)
	}
}
