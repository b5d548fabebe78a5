package palette

import (
	"context"
	"log"
	"os"
	"time"
)

// Watcher polls a palette file and reloads a Store when the file changes.
type Watcher struct {
	path     string
	store    *Store
	interval time.Duration
	baseline time.Time
	onReload func(*Palette, error)
}

// NewWatcher watches path on behalf of store. The file's current
// modification time is the baseline; only later edits trigger a reload.
// A missing file gives a zero baseline, so its creation counts as an edit.
func NewWatcher(path string, store *Store, interval time.Duration) *Watcher {
	w := &Watcher{path: path, store: store, interval: interval}
	w.baseline, _ = w.modTime()
	return w
}

// OnReload sets a callback invoked after every reload attempt with the new
// palette or the error. It runs on the watcher goroutine.
func (w *Watcher) OnReload(fn func(*Palette, error)) {
	w.onReload = fn
}

// Run polls until ctx is done. A failed reload keeps the previous palette
// active and is retried only after the next edit.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.changed() {
				w.reload()
			}
		}
	}
}

func (w *Watcher) changed() bool {
	mt, err := w.modTime()
	if err != nil || !mt.After(w.baseline) {
		return false
	}
	w.baseline = mt
	return true
}

func (w *Watcher) reload() {
	var p *Palette
	err := w.store.Reload()
	if err != nil {
		log.Printf("palette: reload of %s failed, keeping previous palette: %v", w.path, err)
	} else {
		p, err = w.store.Get()
		if err == nil {
			log.Printf("palette: reloaded %d colors from %s", p.Len(), w.path)
		}
	}
	if w.onReload != nil {
		w.onReload(p, err)
	}
}

func (w *Watcher) modTime() (time.Time, error) {
	info, err := os.Stat(w.path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
