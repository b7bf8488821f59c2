package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/papapumpkin/tabula/internal/schedule"
	"github.com/papapumpkin/tabula/internal/timegrid"
)

// testStore builds a store in a temp dir with a small retention bound.
func testStore(t *testing.T, retention int) *Store {
	t.Helper()
	s, err := New(t.TempDir(), retention, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

// seededRepo returns a repository with one timetable, one subject, and one
// session.
func seededRepo(t *testing.T) *schedule.Repository {
	t.Helper()
	r := schedule.New(zerolog.Nop())
	tt, err := r.CreateTimetable("Fall 2024", "2024-1")
	if err != nil {
		t.Fatalf("CreateTimetable: %v", err)
	}
	sub, err := r.CreateSubject(schedule.Subject{Code: "CS101", Name: "Intro CS", Credits: 3})
	if err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}
	if _, _, err := r.AddSession(tt.ID, schedule.Session{
		SubjectID: sub.ID, Day: timegrid.Monday, Start: 540, End: 630, Room: "A1", Type: schedule.Lecture,
	}); err != nil {
		t.Fatalf("AddSession: %v", err)
	}
	return r
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("seeded state", func(t *testing.T) {
		t.Parallel()
		s := testStore(t, 3)
		want := seededRepo(t).Snapshot()
		if err := s.Save(want); err != nil {
			t.Fatalf("Save: %v", err)
		}

		got, err := s.Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(got.Timetables) != 1 || len(got.Subjects) != 1 {
			t.Fatalf("loaded %d timetables / %d subjects", len(got.Timetables), len(got.Subjects))
		}
		wt, gt := want.Timetables[0], got.Timetables[0]
		if gt.ID != wt.ID || gt.Name != wt.Name || len(gt.Sessions) != 1 {
			t.Errorf("timetable mismatch: got %+v, want %+v", gt, wt)
		}
		ws, gs := wt.Sessions[0], gt.Sessions[0]
		if gs.ID != ws.ID || gs.Day != ws.Day || gs.Start != ws.Start || gs.End != ws.End || gs.Room != ws.Room {
			t.Errorf("session mismatch: got %+v, want %+v", gs, ws)
		}
		if got.Subjects[0] != want.Subjects[0] {
			t.Errorf("subject mismatch: got %+v, want %+v", got.Subjects[0], want.Subjects[0])
		}
	})

	t.Run("empty state", func(t *testing.T) {
		t.Parallel()
		s := testStore(t, 3)
		if err := s.Save(schedule.Snapshot{}); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := s.Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(got.Timetables) != 0 || len(got.Subjects) != 0 {
			t.Errorf("empty round-trip produced %+v", got)
		}
	})
}

func TestLoadMissingFilesIsEmpty(t *testing.T) {
	t.Parallel()
	s := testStore(t, 3)
	snap, err := s.Load()
	if err != nil {
		t.Fatalf("Load on fresh dir: %v", err)
	}
	if len(snap.Timetables) != 0 || len(snap.Subjects) != 0 {
		t.Errorf("fresh dir yielded %+v", snap)
	}
}

func TestLoadCorruptDocument(t *testing.T) {
	t.Parallel()
	s := testStore(t, 3)
	path := filepath.Join(s.Dir(), TimetablesFile)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}
	_, err := s.Load()
	var cerr *CorruptionError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want CorruptionError", err)
	}
	if cerr.Path != path {
		t.Errorf("Path = %q, want %q", cerr.Path, path)
	}
}

func TestOpenRecoversFromBackup(t *testing.T) {
	t.Parallel()
	s := testStore(t, 3)
	want := seededRepo(t).Snapshot()
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Save created a backup slot; now corrupt the live document.
	if err := os.WriteFile(filepath.Join(s.Dir(), TimetablesFile), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("corrupting live file: %v", err)
	}

	repo, err := s.Open(zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, err := repo.Timetable(want.Timetables[0].ID)
	if err != nil {
		t.Fatalf("recovered repo missing timetable: %v", err)
	}
	if got.Name != "Fall 2024" {
		t.Errorf("recovered name = %q", got.Name)
	}
}

func TestOpenAllCorruptStartsEmpty(t *testing.T) {
	t.Parallel()
	s := testStore(t, 3)
	if err := os.WriteFile(filepath.Join(s.Dir(), SubjectsFile), []byte("]["), 0o644); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	repo, err := s.Open(zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(repo.Timetables()) != 0 || len(repo.Subjects()) != 0 {
		t.Error("expected empty repository when live and backups are unusable")
	}
}

func TestBackupRetention(t *testing.T) {
	t.Parallel()
	s := testStore(t, 2)
	snap := seededRepo(t).Snapshot()

	// Slot names have second resolution; force distinct slots by renaming
	// after each save.
	stamps := []string{"20240101_090000", "20240102_090000", "20240103_090000", "20240104_090000"}
	root := filepath.Join(s.Dir(), backupsDir)
	for _, stamp := range stamps {
		if err := s.Save(snap); err != nil {
			t.Fatalf("Save: %v", err)
		}
		slots := s.Backups()
		if len(slots) == 0 {
			t.Fatal("save produced no backup")
		}
		if err := os.Rename(slots[0], filepath.Join(root, stamp)); err != nil {
			t.Fatalf("renaming slot: %v", err)
		}
	}

	// One more save triggers pruning down to the retention bound plus the
	// slot it just created.
	if err := s.Save(snap); err != nil {
		t.Fatalf("final Save: %v", err)
	}
	slots := s.Backups()
	if len(slots) > 2 {
		t.Errorf("retention bound exceeded: %d slots: %v", len(slots), slots)
	}

	// The newest backup must always be loadable.
	got, err := s.loadBackup(slots[0])
	if err != nil {
		t.Fatalf("loading newest backup: %v", err)
	}
	if len(got.Timetables) != 1 {
		t.Errorf("newest backup has %d timetables, want 1", len(got.Timetables))
	}
}

func TestAtomicSaveLeavesNoTempFiles(t *testing.T) {
	t.Parallel()
	s := testStore(t, 3)
	if err := s.Save(seededRepo(t).Snapshot()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	t.Parallel()
	s := testStore(t, 3)

	// Fresh store yields defaults.
	got, err := s.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if got["time_format"] != "24h" {
		t.Errorf("default time_format = %v", got["time_format"])
	}

	// Settings are stored verbatim, unknown keys included.
	got["time_format"] = "12h"
	got["window_geometry"] = "1200x800"
	if err := s.SaveSettings(got); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	reloaded, err := s.LoadSettings()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded["time_format"] != "12h" || reloaded["window_geometry"] != "1200x800" {
		t.Errorf("settings not preserved: %v", reloaded)
	}
}
