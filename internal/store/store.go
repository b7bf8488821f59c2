// Package store is the persistence layer: it reads and writes the JSON
// documents that make up the durable store, always through atomic
// temp-write+rename, and manages the bounded set of timestamped backups
// used for corruption recovery.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/papapumpkin/tabula/internal/schedule"
)

// Document file names inside the data directory.
const (
	TimetablesFile = "timetables.json"
	SubjectsFile   = "subjects.json"
	SettingsFile   = "settings.json"
)

// CorruptionError reports that a store document exists but its content
// failed to parse or validate.
type CorruptionError struct {
	Path string
	Err  error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("corrupt store document %s: %v", e.Path, e.Err)
}

func (e *CorruptionError) Unwrap() error {
	return e.Err
}

// Store manages the data directory holding the durable documents.
type Store struct {
	dir       string
	retention int
	log       zerolog.Logger
}

// New creates a store rooted at dir, creating the directory as needed.
// retention bounds how many backups are kept when rotating.
func New(dir string, retention int, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
	}
	if retention < 1 {
		retention = 1
	}
	return &Store{dir: dir, retention: retention, log: log}, nil
}

// Dir returns the data directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Wrapper shapes for the on-disk documents.
type timetablesDoc struct {
	Timetables []schedule.Timetable `json:"timetables"`
}

type subjectsDoc struct {
	Subjects []schedule.Subject `json:"subjects"`
}

// Load reads the live documents into a snapshot. Missing files mean a
// fresh install and yield empty collections, not an error. Content that
// fails to parse is reported as a CorruptionError.
func (s *Store) Load() (schedule.Snapshot, error) {
	var snap schedule.Snapshot

	var tdoc timetablesDoc
	if err := s.readDoc(filepath.Join(s.dir, TimetablesFile), &tdoc); err != nil {
		return schedule.Snapshot{}, err
	}
	var sdoc subjectsDoc
	if err := s.readDoc(filepath.Join(s.dir, SubjectsFile), &sdoc); err != nil {
		return schedule.Snapshot{}, err
	}
	snap.Timetables = tdoc.Timetables
	snap.Subjects = sdoc.Subjects
	return snap, nil
}

// Open loads the repository from the live documents. When a document is
// corrupt it falls back to the newest valid backup; when every backup is
// also unusable it starts empty rather than failing, logging a warning
// each step of the way.
func (s *Store) Open(log zerolog.Logger) (*schedule.Repository, error) {
	repo, err := s.loadRepository(log)
	if err == nil {
		return repo, nil
	}
	var cerr *CorruptionError
	if !errors.As(err, &cerr) {
		return nil, err
	}
	s.log.Warn().Err(cerr).Msg("live store is corrupt, trying backups")

	for _, b := range s.Backups() {
		snap, berr := s.loadBackup(b)
		if berr != nil {
			s.log.Warn().Err(berr).Str("backup", b).Msg("skipping unusable backup")
			continue
		}
		repo, berr := schedule.FromSnapshot(snap, log)
		if berr != nil {
			s.log.Warn().Err(berr).Str("backup", b).Msg("skipping invalid backup")
			continue
		}
		s.log.Warn().Str("backup", b).Msg("recovered from backup")
		return repo, nil
	}

	s.log.Warn().Msg("no usable backup found, starting with empty data")
	return schedule.New(log), nil
}

func (s *Store) loadRepository(log zerolog.Logger) (*schedule.Repository, error) {
	snap, err := s.Load()
	if err != nil {
		return nil, err
	}
	repo, err := schedule.FromSnapshot(snap, log)
	if err != nil {
		// Parsed but semantically invalid content is corruption too.
		return nil, &CorruptionError{Path: s.dir, Err: err}
	}
	return repo, nil
}

// Save serializes the snapshot to the live documents and rotates backups.
// Each document is written to a temporary file and renamed into place, so
// a crash mid-save never leaves a half-written live file.
func (s *Store) Save(snap schedule.Snapshot) error {
	tdoc := timetablesDoc{Timetables: snap.Timetables}
	if tdoc.Timetables == nil {
		tdoc.Timetables = []schedule.Timetable{}
	}
	sdoc := subjectsDoc{Subjects: snap.Subjects}
	if sdoc.Subjects == nil {
		sdoc.Subjects = []schedule.Subject{}
	}

	if err := s.writeDoc(filepath.Join(s.dir, TimetablesFile), tdoc); err != nil {
		return err
	}
	if err := s.writeDoc(filepath.Join(s.dir, SubjectsFile), sdoc); err != nil {
		return err
	}
	if err := s.rotateBackups(); err != nil {
		// The live save succeeded; a backup failure must not look like
		// data loss to the caller.
		s.log.Warn().Err(err).Msg("backup rotation failed")
	}
	return nil
}

// LoadSettings reads the settings document verbatim. The core treats
// settings as opaque UI preferences; missing file yields the defaults.
func (s *Store) LoadSettings() (map[string]any, error) {
	path := filepath.Join(s.dir, SettingsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, &CorruptionError{Path: path, Err: err}
	}
	return settings, nil
}

// SaveSettings writes the settings document atomically.
func (s *Store) SaveSettings(settings map[string]any) error {
	return s.writeDoc(filepath.Join(s.dir, SettingsFile), settings)
}

// DefaultSettings returns the out-of-the-box UI preferences.
func DefaultSettings() map[string]any {
	return map[string]any{
		"theme":                   "dark",
		"time_format":             "24h",
		"auto_save":               true,
		"show_weekend":            false,
		"default_session_minutes": 60,
	}
}

// readDoc unmarshals a JSON document into v. A missing file leaves v at
// its zero value.
func (s *Store) readDoc(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &CorruptionError{Path: path, Err: err}
	}
	return nil
}

// writeDoc marshals v and atomically replaces the file at path
// (write temp + rename).
func (s *Store) writeDoc(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp file for %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming %s into place: %w", filepath.Base(path), err)
	}
	return nil
}
