package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/papapumpkin/tabula/internal/config"
	"github.com/papapumpkin/tabula/internal/history"
	"github.com/papapumpkin/tabula/internal/schedule"
	"github.com/papapumpkin/tabula/internal/state"
	"github.com/papapumpkin/tabula/internal/store"
	"github.com/papapumpkin/tabula/internal/timegrid"
	"github.com/papapumpkin/tabula/internal/ui"
)

// historyDBFile is the journal database inside the data directory.
const historyDBFile = "history.db"

// app wires one command invocation: config, the opened repository, its
// store, the mutation journal, and the printer. Commands load everything,
// perform one operation, and rely on the auto-save flush hook.
type app struct {
	cfg     config.Config
	log     zerolog.Logger
	store   *store.Store
	repo    *schedule.Repository
	state   *state.State
	journal *history.Journal
	printer *ui.Printer
}

// openApp loads configuration, opens the store (recovering from backups
// if the live documents are corrupt), and wires the repository hooks.
func openApp() (*app, error) {
	cfg := config.Load()
	log := newLogger(cfg.Verbose)

	st, err := store.New(cfg.DataDir, cfg.BackupRetention, log)
	if err != nil {
		return nil, err
	}
	repo, err := st.Open(log)
	if err != nil {
		return nil, err
	}
	appState, err := state.Load(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	if appState.ActiveTimetable != "" {
		// The state file may reference a timetable deleted out-of-band.
		if err := repo.SwitchActive(appState.ActiveTimetable); err != nil {
			log.Warn().Str("timetable", appState.ActiveTimetable).Msg("active timetable no longer exists")
			appState.ActiveTimetable = ""
		}
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		store:   st,
		repo:    repo,
		state:   appState,
		printer: ui.New(cfg.TimeFormat == "12h", cfg.ShowWeekend),
	}

	if cfg.History {
		j, jerr := history.Open(context.Background(), filepath.Join(cfg.DataDir, historyDBFile), log)
		if jerr != nil {
			log.Warn().Err(jerr).Msg("history journal unavailable")
		} else {
			a.journal = j
			repo.SetJournal(j)
		}
	}
	repo.SetCascadeDelete(cfg.DeleteCascade)
	if cfg.AutoSave {
		repo.SetFlushHook(a.flush)
	}
	return a, nil
}

// close releases the journal. Deferred by every command.
func (a *app) close() {
	if err := a.journal.Close(); err != nil {
		a.log.Warn().Err(err).Msg("closing history journal")
	}
}

// flush writes the snapshot to the store and advances the state file.
func (a *app) flush(snap schedule.Snapshot) error {
	if err := a.store.Save(snap); err != nil {
		return err
	}
	a.state.LastSaved = time.Now()
	a.state.ActiveTimetable = a.repo.Active()
	if err := state.Save(a.cfg.DataDir, a.state); err != nil {
		return err
	}
	return nil
}

// save persists the current repository state explicitly, through the
// same path the auto-save flush hook takes.
func (a *app) save() error {
	return a.flush(a.repo.Snapshot())
}

// saveState persists only the state file (active timetable selection).
func (a *app) saveState() error {
	a.state.ActiveTimetable = a.repo.Active()
	return state.Save(a.cfg.DataDir, a.state)
}

// report turns repository errors into user-facing output. A FlushError
// means the mutation itself succeeded: warn and carry on. Everything else
// is fatal for the command.
func (a *app) report(err error) error {
	if err == nil {
		return nil
	}
	var ferr *schedule.FlushError
	if errors.As(err, &ferr) {
		a.printer.Warn("%v", ferr)
		return nil
	}
	return err
}

// activeTimetable resolves the timetable a session command targets:
// the --timetable flag value (id or name) when set, otherwise the active
// selection.
func (a *app) resolveTimetable(ref string) (schedule.Timetable, error) {
	if ref == "" {
		id := a.repo.Active()
		if id == "" {
			return schedule.Timetable{}, fmt.Errorf("no active timetable; create one or run 'tabula timetable switch'")
		}
		return a.repo.Timetable(id)
	}
	if t, err := a.repo.Timetable(ref); err == nil {
		return t, nil
	}
	return a.repo.TimetableByName(ref)
}

// resolveSubject accepts a subject id or code.
func (a *app) resolveSubject(ref string) (schedule.Subject, error) {
	if s, err := a.repo.Subject(ref); err == nil {
		return s, nil
	}
	return a.repo.SubjectByCode(ref)
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	w := zerolog.NewConsoleWriter()
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// parseSessionFlags builds a session from the common session command
// flags. slot, when set, is an index into the predefined hour slots and
// replaces --start/--end.
type sessionFlags struct {
	subject string
	day     string
	start   string
	end     string
	room    string
	typ     string
	notes   string
	slot    int
}

func (a *app) buildSession(f sessionFlags) (schedule.Session, error) {
	var s schedule.Session

	sub, err := a.resolveSubject(f.subject)
	if err != nil {
		return s, err
	}
	s.SubjectID = sub.ID

	day, err := parseDayArg(f.day)
	if err != nil {
		return s, err
	}
	s.Day = day

	if f.slot > 0 {
		slots := schedule.CommonSlots()
		if f.slot > len(slots) {
			return s, fmt.Errorf("slot %d out of range 1-%d", f.slot, len(slots))
		}
		iv := slots[f.slot-1]
		s.Start, s.End = iv.Start, iv.End
	} else {
		if s.Start, err = parseClockArg(f.start); err != nil {
			return s, err
		}
		if f.end == "" && a.cfg.DefaultSessionMinutes > 0 {
			s.End = s.Start + timegrid.Minutes(a.cfg.DefaultSessionMinutes)
		} else if s.End, err = parseClockArg(f.end); err != nil {
			return s, err
		}
	}

	typ := f.typ
	if typ == "" {
		typ = string(schedule.Lecture)
	}
	st, err := schedule.ParseSessionType(typ)
	if err != nil {
		return s, err
	}
	s.Type = st
	s.Room = strings.TrimSpace(f.room)
	s.Notes = f.notes
	return s, nil
}
