// Package watch reports writes to the file open in the window.
package watch

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/kobzarvs/qpad/internal/logger"
)

// Watcher follows one file at a time. The parent directory is watched so
// that editors replacing the file by rename are still noticed.
type Watcher struct {
	fs       *fsnotify.Watcher
	onChange func(path string)

	mu   sync.Mutex
	path string
	dir  string

	done chan struct{}
	wg   sync.WaitGroup
}

// New starts the event loop. onChange runs on the watcher goroutine.
func New(onChange func(path string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{fs: fw, onChange: onChange, done: make(chan struct{})}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Watch switches to path. An empty path stops watching.
func (w *Watcher) Watch(path string) error {
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		path = abs
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if path == w.path {
		return nil
	}
	if w.dir != "" {
		if err := w.fs.Remove(w.dir); err != nil {
			logger.Debug("watch remove failed", "dir", w.dir, "err", err)
		}
	}
	w.path, w.dir = "", ""
	if path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if err := w.fs.Add(dir); err != nil {
		return err
	}
	w.path, w.dir = path, dir
	logger.Debug("watching file", "path", path)
	return nil
}

// Path is the file currently watched.
func (w *Watcher) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			path := w.Path()
			if path == "" || filepath.Clean(ev.Name) != path {
				continue
			}
			if w.onChange != nil {
				w.onChange(path)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warn("file watcher error", "err", err)
		}
	}
}

func (w *Watcher) Close() error {
	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	return err
}
