package store

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change reports an external modification of a live store document.
type Change struct {
	File string // document base name, e.g. "timetables.json"
}

// Watcher monitors the data directory for edits made outside this process
// (another editor, a sync client) so a long-running caller can reload.
// Temp files, backups, and the history database are ignored.
type Watcher struct {
	Changes <-chan Change // read-only external channel

	dir     string
	changes chan Change
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the store's data directory.
func NewWatcher(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Change, 16)
	return &Watcher{
		Changes: ch,
		dir:     dir,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start begins watching the data directory.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // wait for loop to exit
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: atomic saves produce a write burst per document.
	const debounce = 100 * time.Millisecond
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for file := range pending {
					w.changes <- Change{File: file}
				}
				return
			}
			if !isLiveDocument(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending[filepath.Base(event.Name)] = time.Now()
			}

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			now := time.Now()
			for file, t := range pending {
				if now.Sub(t) >= debounce {
					w.changes <- Change{File: file}
					delete(pending, file)
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; keep going.
		}
	}
}

// isLiveDocument reports whether the path names one of the two documents
// whose external modification warrants a reload.
func isLiveDocument(name string) bool {
	switch filepath.Base(name) {
	case TimetablesFile, SubjectsFile:
		return true
	}
	return false
}
