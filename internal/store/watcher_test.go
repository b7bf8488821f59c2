package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherEmitsForLiveDocuments(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, TimetablesFile), []byte(`{"timetables":[]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case ch := <-w.Changes:
		if ch.File != TimetablesFile {
			t.Errorf("change for %q, want %q", ch.File, TimetablesFile)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change emitted for live document write")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	for _, name := range []string{TimetablesFile + ".tmp", "history.db", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	select {
	case ch := <-w.Changes:
		t.Errorf("unexpected change for %q", ch.File)
	case <-time.After(300 * time.Millisecond):
	}
}
