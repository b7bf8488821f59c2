package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/papapumpkin/tabula/internal/schedule"
)

// exportDoc is the self-contained shape of a timetable export: the
// timetable plus every subject its sessions reference, so the file can be
// imported elsewhere without external context.
type exportDoc struct {
	Timetable schedule.Timetable `json:"timetable"`
	Subjects  []schedule.Subject `json:"subjects"`
}

// csvHeader is the flattened per-session CSV schema, subject fields
// denormalized for spreadsheet consumption.
var csvHeader = []string{
	"timetableName", "subjectCode", "subjectName", "day", "start", "end",
	"room", "sessionType", "instructor", "notes",
}

// referencedSubjects filters subjects down to those the timetable's
// sessions use, sorted by code.
func referencedSubjects(t schedule.Timetable, subjects []schedule.Subject) []schedule.Subject {
	used := make(map[string]bool)
	for _, s := range t.Sessions {
		used[s.SubjectID] = true
	}
	out := make([]schedule.Subject, 0, len(used))
	for _, sub := range subjects {
		if used[sub.ID] {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// ExportJSON writes a self-contained JSON export of one timetable.
func ExportJSON(w io.Writer, t schedule.Timetable, subjects []schedule.Subject) error {
	doc := exportDoc{Timetable: t, Subjects: referencedSubjects(t, subjects)}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}

// ExportCSV writes one row per session with the subject resolved, rows
// ordered by day then start time.
func ExportCSV(w io.Writer, t schedule.Timetable, subjects []schedule.Subject) error {
	byID := make(map[string]schedule.Subject, len(subjects))
	for _, sub := range subjects {
		byID[sub.ID] = sub
	}

	sessions := make([]schedule.Session, len(t.Sessions))
	copy(sessions, t.Sessions)
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].Day != sessions[j].Day {
			return sessions[i].Day < sessions[j].Day
		}
		return sessions[i].Start < sessions[j].Start
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, s := range sessions {
		sub := byID[s.SubjectID]
		row := []string{
			t.Name,
			sub.Code,
			sub.Name,
			s.Day.String(),
			s.Start.Clock(),
			s.End.Clock(),
			s.Room,
			string(s.Type),
			sub.Instructor,
			s.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row for session %s: %w", s.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}
