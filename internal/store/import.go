package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/papapumpkin/tabula/internal/schedule"
)

// ImportError reports why an import payload was rejected. Imports are
// all-or-nothing: the first failing entity aborts the whole operation and
// nothing is applied.
type ImportError struct {
	Entity string // "subject", "session", or "timetable"
	ID     string // id within the payload, if any
	Err    error
}

func (e *ImportError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("import rejected: %s %s: %v", e.Entity, e.ID, e.Err)
	}
	return fmt.Sprintf("import rejected: %s: %v", e.Entity, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// ImportJSON parses a timetable export and re-validates every entity as if
// it were being entered fresh: subject validation, session validation, and
// a conflict check per session against the sessions accepted before it.
// Imported data is not trusted regardless of who produced it.
//
// The timetable and its sessions receive fresh ids; subject ids are kept
// so re-imports into the same repository match existing subjects. The
// returned entities have not been applied anywhere - committing them (via
// Repository.Adopt) is the caller's step, so cancellation via ctx is
// always a no-op on state.
func ImportJSON(ctx context.Context, r io.Reader) (schedule.Timetable, []schedule.Subject, error) {
	var doc exportDoc
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return schedule.Timetable{}, nil, &ImportError{Entity: "timetable", Err: fmt.Errorf("parsing payload: %w", err)}
	}

	subjects := make(map[string]bool, len(doc.Subjects))
	for _, sub := range doc.Subjects {
		if sub.ID == "" {
			return schedule.Timetable{}, nil, &ImportError{Entity: "subject", ID: sub.Code, Err: fmt.Errorf("missing id")}
		}
		if subjects[sub.ID] {
			return schedule.Timetable{}, nil, &ImportError{Entity: "subject", ID: sub.ID, Err: schedule.ErrDuplicateID}
		}
		if err := schedule.ValidateSubject(sub); err != nil {
			return schedule.Timetable{}, nil, &ImportError{Entity: "subject", ID: sub.ID, Err: err}
		}
		subjects[sub.ID] = true
	}

	now := time.Now()
	t := schedule.Timetable{
		ID:         uuid.NewString(),
		Name:       doc.Timetable.Name,
		Semester:   doc.Timetable.Semester,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if t.Name == "" {
		return schedule.Timetable{}, nil, &ImportError{Entity: "timetable", Err: fmt.Errorf("name must not be empty")}
	}

	exists := func(id string) bool { return subjects[id] }
	for _, s := range doc.Timetable.Sessions {
		if err := ctx.Err(); err != nil {
			return schedule.Timetable{}, nil, fmt.Errorf("import cancelled: %w", err)
		}
		oldID := s.ID
		s.ID = uuid.NewString()
		if err := schedule.ValidateSession(s, exists); err != nil {
			return schedule.Timetable{}, nil, &ImportError{Entity: "session", ID: oldID, Err: err}
		}
		if res := schedule.CheckConflict(t, s, ""); res.HasHard() {
			return schedule.Timetable{}, nil, &ImportError{
				Entity: "session", ID: oldID,
				Err: &schedule.ConflictError{Conflicting: res.Hard},
			}
		}
		t.Sessions = append(t.Sessions, s)
	}

	return t, doc.Subjects, nil
}
