package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/papapumpkin/tabula/internal/schedule"
	"github.com/papapumpkin/tabula/internal/timegrid"
)

func testPrinter() (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errBuf bytes.Buffer
	return &Printer{Out: &out, Err: &errBuf}, &out, &errBuf
}

var uiSubjects = []schedule.Subject{
	{ID: "cs", Code: "CS101", Name: "Intro CS", Credits: 3},
}

func uiTimetable() schedule.Timetable {
	return schedule.Timetable{
		ID: "tt", Name: "Fall 2024", Semester: "2024-1",
		Sessions: []schedule.Session{
			{ID: "s1", SubjectID: "cs", Day: timegrid.Monday, Start: 540, End: 630, Room: "A1", Type: schedule.Lecture},
		},
	}
}

func TestWeekRendersSessions(t *testing.T) {
	t.Parallel()
	p, out, _ := testPrinter()
	tt := uiTimetable()
	view := map[timegrid.Day][]schedule.Session{timegrid.Monday: tt.Sessions}

	p.Week(tt, view, uiSubjects)
	got := out.String()
	for _, want := range []string{"Fall 2024", "Monday", "09:00 - 10:30", "CS101", "A1"} {
		if !strings.Contains(got, want) {
			t.Errorf("week output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Saturday") {
		t.Error("weekend shown with ShowWeekend disabled and no weekend sessions")
	}
}

func TestTwelveHourClock(t *testing.T) {
	t.Parallel()
	p, out, _ := testPrinter()
	p.TwelveHour = true
	tt := uiTimetable()

	p.Day(timegrid.Monday, tt.Sessions, uiSubjects)
	if got := out.String(); !strings.Contains(got, "9:00 AM - 10:30 AM") {
		t.Errorf("12-hour format not applied:\n%s", got)
	}
}

func TestHardConflictsListsSessions(t *testing.T) {
	t.Parallel()
	p, _, errBuf := testPrinter()
	tt := uiTimetable()

	p.HardConflicts([]string{"s1"}, tt)
	got := errBuf.String()
	if !strings.Contains(got, "s1") || !strings.Contains(got, "Monday") {
		t.Errorf("conflict output missing context:\n%s", got)
	}
}

func TestSoftConflictsEmptyIsSilent(t *testing.T) {
	t.Parallel()
	p, _, errBuf := testPrinter()
	p.SoftConflicts(nil, uiTimetable())
	if errBuf.Len() != 0 {
		t.Errorf("unexpected output: %q", errBuf.String())
	}
}
