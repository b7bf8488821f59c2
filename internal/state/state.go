// Package state persists the small piece of application state that is not
// timetable data: which timetable is active and when the store was last
// saved. It lives next to the JSON documents as a TOML file.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const stateFileName = "tabula.state.toml"

// State is the on-disk application state.
type State struct {
	Version         int       `toml:"version"`
	ActiveTimetable string    `toml:"active_timetable"`
	LastSaved       time.Time `toml:"last_saved,omitempty"`
}

// Load reads the state file from the data directory. Returns a fresh
// state if the file does not exist.
func Load(dir string) (*State, error) {
	path := filepath.Join(dir, stateFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{Version: 1}, nil
		}
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var st State
	if err := toml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing state file: %w", err)
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

// Save writes the state file atomically (write temp + rename).
func Save(dir string, st *State) error {
	data, err := toml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	path := filepath.Join(dir, stateFileName)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming state file: %w", err)
	}
	return nil
}
