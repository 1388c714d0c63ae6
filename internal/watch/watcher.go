package watch

import (
	"context"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	pserrors "github.com/standardbeagle/pyscope/internal/errors"
)

// skipDirs are directories never worth watching; they churn constantly and
// contain nothing the analyzer reads.
var skipDirs = map[string]bool{
	".git":         true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	"node_modules": true,
	".tox":         true,
	"build":        true,
	"dist":         true,
}

// Watcher observes a project tree and reports batches of changed Python
// files after a quiet period. Rapid save sequences from editors collapse
// into one callback instead of one re-analysis per write.
type Watcher struct {
	root     string
	debounce time.Duration
	onChange func(paths []string)

	fsw    *fsnotify.Watcher
	wg     sync.WaitGroup
	cancel context.CancelFunc

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
}

// New creates a watcher for root. onChange receives root-relative paths of
// the files that settled during the debounce window.
func New(root string, debounce time.Duration, onChange func(paths []string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, pserrors.NewAnalysisError("watcher setup", root, err)
	}
	return &Watcher{
		root:     root,
		debounce: debounce,
		onChange: onChange,
		fsw:      fsw,
		pending:  make(map[string]bool),
	}, nil
}

// Start registers the directory tree and begins delivering change batches
// until ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addTree(w.root); err != nil {
		w.fsw.Close()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go w.loop(ctx)
	return nil
}

// Close stops the watcher and waits for the event loop to drain.
func (w *Watcher) Close() error {
	if w.cancel != nil {
		w.cancel()
	}
	err := w.fsw.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return err
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("warning: watch error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// New directories need their own watch before events arrive from them.
	if event.Op.Has(fsnotify.Create) {
		if base := filepath.Base(event.Name); !skipDirs[base] && !strings.Contains(base, ".") {
			// Add is a no-op error for plain files; ignore it.
			_ = w.fsw.Add(event.Name)
		}
	}

	if !strings.HasSuffix(event.Name, ".py") {
		return
	}
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		rel = event.Name
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[rel] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

// flush hands the settled batch to the callback.
func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	w.onChange(paths)
}
