// Package schedule holds the scheduling core: the Subject, Session, and
// Timetable entities, their validation rules, the conflict engine, and the
// Repository that owns all of them behind a single-writer lock.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/papapumpkin/tabula/internal/timegrid"
)

// SessionType classifies a class session.
type SessionType string

// Known session types. Lecture through Seminar plus Other form the
// canonical set; Workshop and Practical are accepted for data produced by
// older exports.
const (
	Lecture   SessionType = "Lecture"
	Lab       SessionType = "Lab"
	Tutorial  SessionType = "Tutorial"
	Seminar   SessionType = "Seminar"
	Workshop  SessionType = "Workshop"
	Practical SessionType = "Practical"
	Other     SessionType = "Other"
)

var sessionTypes = []SessionType{Lecture, Lab, Tutorial, Seminar, Workshop, Practical, Other}

// ParseSessionType resolves a session type name case-insensitively.
func ParseSessionType(s string) (SessionType, error) {
	for _, st := range sessionTypes {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown session type %q", s)
}

// Subject is a course a user can schedule sessions for. The Color field is
// a display hint (hex string) stored with the subject so exports are
// self-contained.
type Subject struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Instructor string `json:"instructor,omitempty"`
	Color      string `json:"color"`
	Credits    int    `json:"credits"`
}

// Session is a single weekly occurrence of a subject at a day, time span,
// and optional room. Start/End form a half-open interval.
type Session struct {
	ID        string           `json:"id"`
	SubjectID string           `json:"subjectId"`
	Day       timegrid.Day     `json:"day"`
	Start     timegrid.Minutes `json:"start"`
	End       timegrid.Minutes `json:"end"`
	Room      string           `json:"room,omitempty"`
	Type      SessionType      `json:"sessionType"`
	Notes     string           `json:"notes,omitempty"`
}

// Interval returns the session's time span.
func (s Session) Interval() timegrid.Interval {
	return timegrid.Interval{Start: s.Start, End: s.End}
}

// Timetable is a named collection of sessions for one semester.
type Timetable struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Semester   string    `json:"semester"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
	Sessions   []Session `json:"sessions"`
}

// clone returns a deep copy so callers never share the repository's
// session slice.
func (t Timetable) clone() Timetable {
	cp := t
	cp.Sessions = make([]Session, len(t.Sessions))
	copy(cp.Sessions, t.Sessions)
	return cp
}

// session returns a pointer into t.Sessions by id, or nil.
func (t *Timetable) session(id string) *Session {
	for i := range t.Sessions {
		if t.Sessions[i].ID == id {
			return &t.Sessions[i]
		}
	}
	return nil
}

// Snapshot is the full persistable state of a repository: every timetable
// and the global subject collection.
type Snapshot struct {
	Timetables []Timetable `json:"timetables"`
	Subjects   []Subject   `json:"subjects"`
}

// defaultPalette is cycled through when subjects are created without an
// explicit color.
var defaultPalette = []string{
	"#3b82f6", // blue
	"#ef4444", // red
	"#10b981", // green
	"#f59e0b", // amber
	"#8b5cf6", // purple
	"#ec4899", // pink
	"#06b6d4", // cyan
	"#84cc16", // lime
	"#f97316", // orange
	"#6366f1", // indigo
}

// CommonSlots are the predefined hour-long slots offered for quick session
/// entry (08:00 through 18:00).
func CommonSlots() []timegrid.Interval {
	slots := make([]timegrid.Interval, 0, 10)
	for h := 8; h < 18; h++ {
		slots = append(slots, timegrid.Interval{
			Start: timegrid.Minutes(h * 60),
			End:   timegrid.Minutes((h + 1) * 60),
		})
	}
	return slots
}
