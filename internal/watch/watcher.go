package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a path must stay quiet before onChange fires.
const DefaultDebounce = 200 * time.Millisecond

// Watcher monitors a directory tree for markdown changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	root     string
	delay    time.Duration
	debounce map[string]*time.Timer
	mu       sync.Mutex
	closed   bool
	onChange func(path string) // called once per debounced write or create
}

// New watches root and every non-hidden directory below it.
func New(root string, delay time.Duration, onChange func(path string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		root:     root,
		delay:    delay,
		debounce: make(map[string]*time.Timer),
		onChange: onChange,
	}

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return fw.Add(path)
		}
		return nil
	})
	if err != nil {
		fw.Close()
		return nil, err
	}

	return w, nil
}

// Run dispatches events until ctx is cancelled or the watcher is closed.
// A watcher error ends the run and is returned.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// Only care about markdown files
	if !IsMarkdown(path) {
		// But watch new directories
		if event.Has(fsnotify.Create) {
			info, err := os.Stat(path)
			if err == nil && info.IsDir() && !strings.HasPrefix(info.Name(), ".") {
				w.watcher.Add(path)
			}
		}
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}
	w.debounce[path] = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		delete(w.debounce, path)
		closed := w.closed
		w.mu.Unlock()

		if !closed && w.onChange != nil {
			w.onChange(path)
		}
	})
}

// Close stops the watcher and cancels pending callbacks.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return errors.New("watcher already closed")
	}
	w.closed = true
	for path, timer := range w.debounce {
		timer.Stop()
		delete(w.debounce, path)
	}
	w.mu.Unlock()

	return w.watcher.Close()
}

// IsMarkdown reports whether path has a markdown extension.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdx":
		return true
	}
	return false
}
