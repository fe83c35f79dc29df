package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docsnap/internal/logfields"
)

// ChangeFunc receives the sorted set of paths changed since the last call.
type ChangeFunc func(ctx context.Context, paths []string)

// Watcher monitors the live docs tree and its sidebar file.
type Watcher struct {
	docsDir  string
	sidebar  string
	debounce time.Duration
	onChange ChangeFunc

	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

// NewWatcher creates a watcher for docsDir (recursively) and sidebarPath.
func NewWatcher(docsDir, sidebarPath string, debounce time.Duration, onChange ChangeFunc) (*Watcher, error) {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	docsAbs, err := filepath.Abs(docsDir)
	if err != nil {
		return nil, fmt.Errorf("resolve docs dir: %w", err)
	}
	sidebarAbs, err := filepath.Abs(sidebarPath)
	if err != nil {
		return nil, fmt.Errorf("resolve sidebar path: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		docsDir:  docsAbs,
		sidebar:  sidebarAbs,
		debounce: debounce,
		onChange: onChange,
		watcher:  w,
		pending:  make(map[string]struct{}),
	}, nil
}

// Run watches until ctx is canceled. The underlying watcher is closed on
// return, so a Watcher runs once.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		_ = w.watcher.Close()
	}()

	if err := w.addTree(w.docsDir); err != nil {
		return err
	}
	// The directory is watched rather than the file so that editors that
	// replace the file by rename keep being followed.
	if err := w.watcher.Add(filepath.Dir(w.sidebar)); err != nil {
		return fmt.Errorf("failed to watch sidebar directory: %w", err)
	}

	slog.Info("Watching documentation", logfields.Path(w.docsDir), logfields.File(w.sidebar))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping documentation watcher")
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	if !w.relevant(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				slog.Warn("Failed to watch new directory", logfields.Path(ev.Name), logfields.Error(err))
			}
		}
	}
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return
	}
	slog.Debug("Change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.trigger(ctx, ev.Name)
}

// relevant keeps events under the docs tree that are not hidden, plus the
// sidebar file itself.
func (w *Watcher) relevant(name string) bool {
	if name == w.sidebar {
		return true
	}
	rel, err := filepath.Rel(w.docsDir, name)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." {
			return false
		}
	}
	return true
}

// trigger records path and restarts the debounce timer.
func (w *Watcher) trigger(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.flush(ctx) })
}

func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if len(paths) == 0 || ctx.Err() != nil {
		return
	}
	sort.Strings(paths)
	if w.onChange != nil {
		w.onChange(ctx, paths)
	}
}
