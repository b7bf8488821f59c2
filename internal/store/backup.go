package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/papapumpkin/tabula/internal/schedule"
)

// backupsDir is the subdirectory of the data dir holding backup slots.
const backupsDir = "backups"

// backupStamp is the slot-name layout; lexical order equals time order.
const backupStamp = "20060102_150405"

// rotateBackups copies the just-written live documents into a new
// timestamped slot and prunes slots beyond the retention bound, oldest
// first.
func (s *Store) rotateBackups() error {
	root := filepath.Join(s.dir, backupsDir)
	slot := filepath.Join(root, time.Now().Format(backupStamp))
	if err := os.MkdirAll(slot, 0o755); err != nil {
		return fmt.Errorf("creating backup slot: %w", err)
	}

	for _, name := range []string{TimetablesFile, SubjectsFile, SettingsFile} {
		src := filepath.Join(s.dir, name)
		data, err := os.ReadFile(src)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("reading %s for backup: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(slot, name), data, 0o644); err != nil {
			return fmt.Errorf("writing backup of %s: %w", name, err)
		}
	}

	slots := s.Backups()
	for i := s.retention; i < len(slots); i++ {
		if err := os.RemoveAll(slots[i]); err != nil {
			return fmt.Errorf("pruning backup %s: %w", slots[i], err)
		}
		s.log.Debug().Str("backup", slots[i]).Msg("pruned old backup")
	}
	return nil
}

// Backups lists backup slot paths, newest first. Entries that do not look
// like timestamp slots are ignored.
func (s *Store) Backups() []string {
	root := filepath.Join(s.dir, backupsDir)
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var slots []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := time.Parse(backupStamp, e.Name()); err != nil {
			continue
		}
		slots = append(slots, filepath.Join(root, e.Name()))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(slots)))
	return slots
}

// loadBackup reads the documents from one backup slot into a snapshot.
func (s *Store) loadBackup(slot string) (schedule.Snapshot, error) {
	var tdoc timetablesDoc
	if err := s.readDoc(filepath.Join(slot, TimetablesFile), &tdoc); err != nil {
		return schedule.Snapshot{}, err
	}
	var sdoc subjectsDoc
	if err := s.readDoc(filepath.Join(slot, SubjectsFile), &sdoc); err != nil {
		return schedule.Snapshot{}, err
	}
	return schedule.Snapshot{Timetables: tdoc.Timetables, Subjects: sdoc.Subjects}, nil
}
