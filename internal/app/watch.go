package app

import (
	"os"
	"sync"
	"time"
)

// FileWatcher polls the open annotation file and reports when something
// other than this editor rewrites it.
type FileWatcher struct {
	mu            sync.Mutex
	path          string
	baseline      time.Time
	checkInterval time.Duration
	stopCh        chan struct{}
	onChange      func(path string) // Called from the watcher goroutine
}

// NewFileWatcher creates a watcher that checks every interval once started.
func NewFileWatcher(checkInterval time.Duration) *FileWatcher {
	return &FileWatcher{checkInterval: checkInterval}
}

// OnChange sets the callback to invoke when the watched file changes.
// The callback runs on a background goroutine.
func (w *FileWatcher) OnChange(callback func(path string)) {
	w.mu.Lock()
	w.onChange = callback
	w.mu.Unlock()
}

// Watch switches to path and records its current modification time.
// A file that does not exist yet counts as changed once it appears.
func (w *FileWatcher) Watch(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.path = path
	w.baseline = modTime(path)
}

// ResetBaseline accepts the file's current state, e.g. after the user
// declined to reload it.
func (w *FileWatcher) ResetBaseline() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.baseline = modTime(w.path)
}

// Start begins watching in a background goroutine.
func (w *FileWatcher) Start() {
	w.mu.Lock()
	w.stopCh = make(chan struct{})
	stop := w.stopCh
	w.mu.Unlock()
	go w.watchLoop(stop)
}

// Stop stops the watcher goroutine.
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopCh != nil {
		close(w.stopCh)
		w.stopCh = nil
	}
}

func (w *FileWatcher) watchLoop(stop chan struct{}) {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if path, changed := w.checkForUpdate(); changed {
				w.mu.Lock()
				cb := w.onChange
				w.mu.Unlock()
				if cb != nil {
					cb(path)
				}
			}
		}
	}
}

// checkForUpdate reports whether the file changed since the baseline and,
// if so, moves the baseline forward so each change is reported once.
func (w *FileWatcher) checkForUpdate() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.path == "" {
		return "", false
	}
	mt := modTime(w.path)
	if mt.IsZero() || !mt.After(w.baseline) {
		return "", false
	}
	w.baseline = mt
	return w.path, true
}

func modTime(path string) time.Time {
	if path == "" {
		return time.Time{}
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
