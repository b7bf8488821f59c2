// Package ui renders command feedback and timetable views for the CLI.
// Status messages go to Err (stderr); data output goes to Out (stdout) so
// it survives piping.
package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/papapumpkin/tabula/internal/ansi"
	"github.com/papapumpkin/tabula/internal/schedule"
	"github.com/papapumpkin/tabula/internal/timegrid"
)

// Printer writes human-facing output.
type Printer struct {
	Out         io.Writer
	Err         io.Writer
	TwelveHour  bool // format times as 12-hour clock
	ShowWeekend bool // include Saturday/Sunday in week views
}

// New returns a printer wired to stdout/stderr with the given time format.
func New(twelveHour, showWeekend bool) *Printer {
	return &Printer{
		Out:         os.Stdout,
		Err:         os.Stderr,
		TwelveHour:  twelveHour,
		ShowWeekend: showWeekend,
	}
}

func (p *Printer) clock(m timegrid.Minutes) string {
	if p.TwelveHour {
		return m.Clock12()
	}
	return m.Clock()
}

func (p *Printer) span(s schedule.Session) string {
	return p.clock(s.Start) + " - " + p.clock(s.End)
}

// Success prints a green confirmation line.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.Err, ansi.Green+"✓ "+ansi.Reset+format+"\n", args...)
}

// Warn prints a yellow warning line.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.Err, ansi.Yellow+ansi.Bold+"⚠ "+ansi.Reset+format+"\n", args...)
}

// Error prints a red error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.Err, ansi.Red+ansi.Bold+"error: "+ansi.Reset+"%s\n", msg)
}

// SoftConflicts warns about advisory double-bookings, resolving the
// conflicting sessions for display when possible.
func (p *Printer) SoftConflicts(ids []string, t schedule.Timetable) {
	if len(ids) == 0 {
		return
	}
	p.Warn("same subject is double-booked with %d other session(s):", len(ids))
	for _, id := range ids {
		for _, s := range t.Sessions {
			if s.ID == id {
				fmt.Fprintf(p.Err, "    %s %s %s\n", s.Day, p.span(s), s.Room)
			}
		}
	}
}

// HardConflicts explains a rejected mutation by listing the blocking
// sessions.
func (p *Printer) HardConflicts(ids []string, t schedule.Timetable) {
	p.Error(fmt.Sprintf("time slot is taken; conflicts with %d session(s):", len(ids)))
	for _, id := range ids {
		for _, s := range t.Sessions {
			if s.ID == id {
				fmt.Fprintf(p.Err, "    %s  %s %s %s\n", ansi.Dim+s.ID+ansi.Reset, s.Day, p.span(s), s.Room)
			}
		}
	}
}

// SubjectTable lists subjects with code, name, credits, and instructor.
func (p *Printer) SubjectTable(subjects []schedule.Subject) {
	if len(subjects) == 0 {
		fmt.Fprintln(p.Out, "no subjects defined")
		return
	}
	fmt.Fprintf(p.Out, "%-36s  %-8s  %-28s  %3s  %s\n", "ID", "CODE", "NAME", "CR", "INSTRUCTOR")
	for _, s := range subjects {
		fmt.Fprintf(p.Out, "%-36s  %-8s  %-28s  %3d  %s\n", s.ID, s.Code, s.Name, s.Credits, s.Instructor)
	}
}

// TimetableTable lists timetables, marking the active one.
func (p *Printer) TimetableTable(timetables []schedule.Timetable, activeID string) {
	if len(timetables) == 0 {
		fmt.Fprintln(p.Out, "no timetables yet")
		return
	}
	fmt.Fprintf(p.Out, "%-36s  %-20s  %-10s  %8s\n", "ID", "NAME", "SEMESTER", "SESSIONS")
	for _, t := range timetables {
		marker := "  "
		if t.ID == activeID {
			marker = ansi.Green + "* " + ansi.Reset
		}
		fmt.Fprintf(p.Out, "%s%-34s  %-20s  %-10s  %8d\n", marker, t.ID, t.Name, t.Semester, len(t.Sessions))
	}
}

// Week renders the weekly view, one day block per day that has sessions
// (plus empty weekday markers), sessions sorted by start time.
func (p *Printer) Week(t schedule.Timetable, view map[timegrid.Day][]schedule.Session, subjects []schedule.Subject) {
	byID := subjectIndex(subjects)
	fmt.Fprintf(p.Out, "%s%s%s  %s\n", ansi.Bold, t.Name, ansi.Reset, dim(t.Semester))
	for _, d := range timegrid.Days() {
		if !p.ShowWeekend && d >= timegrid.Saturday && len(view[d]) == 0 {
			continue
		}
		fmt.Fprintf(p.Out, "\n%s%s%s\n", ansi.Bold+ansi.Cyan, d, ansi.Reset)
		if len(view[d]) == 0 {
			fmt.Fprintln(p.Out, dim("  (free)"))
			continue
		}
		for _, s := range view[d] {
			p.sessionLine(s, byID)
		}
	}
}

// Day renders a single day's sessions.
func (p *Printer) Day(d timegrid.Day, sessions []schedule.Session, subjects []schedule.Subject) {
	byID := subjectIndex(subjects)
	fmt.Fprintf(p.Out, "%s%s%s\n", ansi.Bold+ansi.Cyan, d, ansi.Reset)
	if len(sessions) == 0 {
		fmt.Fprintln(p.Out, dim("  (free)"))
		return
	}
	for _, s := range sessions {
		p.sessionLine(s, byID)
	}
}

func (p *Printer) sessionLine(s schedule.Session, byID map[string]schedule.Subject) {
	sub := byID[s.SubjectID]
	room := s.Room
	if room == "" {
		room = "-"
	}
	fmt.Fprintf(p.Out, "  %s  %-8s %-24s %-8s %s\n",
		p.span(s), sub.Code, sub.Name, room, dim(string(s.Type)))
}

// Stats renders summary statistics for one timetable.
func (p *Printer) Stats(t schedule.Timetable, st schedule.Stats, subjects []schedule.Subject) {
	byID := subjectIndex(subjects)
	fmt.Fprintf(p.Out, "%s%s%s  %s\n", ansi.Bold, t.Name, ansi.Reset, dim(t.Semester))
	fmt.Fprintf(p.Out, "  sessions:      %d\n", st.TotalSessions)
	fmt.Fprintf(p.Out, "  weekly hours:  %.1f\n", float64(st.WeeklyMinutes)/60)
	fmt.Fprintf(p.Out, "  credits:       %d\n", st.TotalCredits)

	if len(st.PerSubject) > 0 {
		fmt.Fprintln(p.Out, "  per subject:")
		ids := make([]string, 0, len(st.PerSubject))
		for id := range st.PerSubject {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return byID[ids[i]].Code < byID[ids[j]].Code })
		for _, id := range ids {
			fmt.Fprintf(p.Out, "    %-8s %d session(s)\n", byID[id].Code, st.PerSubject[id])
		}
	}
	if len(st.BusyMinutesPerDay) > 0 {
		fmt.Fprintln(p.Out, "  busy hours per day:")
		for _, d := range timegrid.Days() {
			mins, ok := st.BusyMinutesPerDay[d]
			if !ok {
				continue
			}
			fmt.Fprintf(p.Out, "    %-10s %.1f\n", d.String(), float64(mins)/60)
		}
	}
}

func subjectIndex(subjects []schedule.Subject) map[string]schedule.Subject {
	byID := make(map[string]schedule.Subject, len(subjects))
	for _, s := range subjects {
		byID[s.ID] = s
	}
	return byID
}

func dim(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return ansi.Dim + s + ansi.Reset
}
