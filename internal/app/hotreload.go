package app

import (
	"os"
	"path/filepath"
	"time"
)

// BinaryWatcher polls the running executable and fires a callback once when
// a newer build replaces it on disk. Development convenience: the viewer
// logs that a rebuilt binary is waiting instead of running stale.
type BinaryWatcher struct {
	path     string
	modTime  time.Time
	interval time.Duration
	stop     chan struct{}
}

// WatchBinary starts watching the current executable, invoking onReplace
// from a background goroutine when its mod time advances. Returns nil when
// the executable path cannot be resolved.
func WatchBinary(interval time.Duration, onReplace func()) *BinaryWatcher {
	execPath, err := os.Executable()
	if err != nil {
		return nil
	}
	// go build writes a new file; follow the symlink to the real one.
	if real, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = real
	}
	return watchFile(execPath, interval, onReplace)
}

func watchFile(path string, interval time.Duration, onReplace func()) *BinaryWatcher {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	w := &BinaryWatcher{
		path:     path,
		modTime:  info.ModTime(),
		interval: interval,
		stop:     make(chan struct{}),
	}
	go w.loop(onReplace)
	return w
}

func (w *BinaryWatcher) loop(onReplace func()) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				continue
			}
			if info.ModTime().After(w.modTime) {
				onReplace()
				return
			}
		}
	}
}

// Stop ends the watch goroutine.
func (w *BinaryWatcher) Stop() {
	close(w.stop)
}

// Path returns the watched executable path.
func (w *BinaryWatcher) Path() string {
	return w.path
}

// ModTime returns the executable's mod time when the watch began.
func (w *BinaryWatcher) ModTime() time.Time {
	return w.modTime
}
