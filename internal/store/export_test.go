package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/papapumpkin/tabula/internal/schedule"
	"github.com/papapumpkin/tabula/internal/timegrid"
)

func TestExportCSV(t *testing.T) {
	t.Parallel()
	r := seededRepo(t)
	tt := r.Timetables()[0]
	sub := r.Subjects()[0]

	// A second, earlier session to verify day-then-start ordering.
	if _, _, err := r.AddSession(tt.ID, schedule.Session{
		SubjectID: sub.ID, Day: timegrid.Monday, Start: 480, End: 530, Room: "B2", Type: schedule.Lab,
	}); err != nil {
		t.Fatalf("AddSession: %v", err)
	}
	tt, _ = r.Timetable(tt.ID)

	var buf bytes.Buffer
	if err := ExportCSV(&buf, tt, r.Subjects()); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	wantHeader := "timetableName,subjectCode,subjectName,day,start,end,room,sessionType,instructor,notes"
	if got := strings.Join(rows[0], ","); got != wantHeader {
		t.Errorf("header = %q, want %q", got, wantHeader)
	}
	if rows[1][4] != "08:00" || rows[2][4] != "09:00" {
		t.Errorf("rows not sorted by start: %v / %v", rows[1], rows[2])
	}
	if rows[1][1] != "CS101" || rows[1][2] != "Intro CS" {
		t.Errorf("subject not denormalized: %v", rows[1])
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()
	r := seededRepo(t)
	tt := r.Timetables()[0]

	var buf bytes.Buffer
	if err := ExportJSON(&buf, tt, r.Subjects()); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	imported, subjects, err := ImportJSON(context.Background(), &buf)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if imported.ID == tt.ID {
		t.Error("import kept the original timetable id")
	}
	if imported.Name != tt.Name || len(imported.Sessions) != len(tt.Sessions) {
		t.Fatalf("imported %+v, want shape of %+v", imported, tt)
	}
	// Ids may differ; day/time/room/subject tuples must match exactly.
	ws, gs := tt.Sessions[0], imported.Sessions[0]
	if gs.Day != ws.Day || gs.Start != ws.Start || gs.End != ws.End || gs.Room != ws.Room || gs.SubjectID != ws.SubjectID {
		t.Errorf("session tuple mismatch: got %+v, want %+v", gs, ws)
	}
	if len(subjects) != 1 || subjects[0].Code != "CS101" {
		t.Errorf("subjects = %+v", subjects)
	}

	// Adopting the import back into the source repository yields a second
	// timetable sharing the subject collection.
	if _, err := r.Adopt(imported, subjects); err != nil {
		t.Fatalf("Adopt: %v", err)
	}
	if n := len(r.Timetables()); n != 2 {
		t.Errorf("after adopt: %d timetables, want 2", n)
	}
	if n := len(r.Subjects()); n != 1 {
		t.Errorf("after adopt: %d subjects, want 1 (merged by id)", n)
	}
}

func TestImportAllOrNothing(t *testing.T) {
	t.Parallel()

	t.Run("invalid session rejects whole payload", func(t *testing.T) {
		t.Parallel()
		payload := `{
			"timetable": {
				"name": "Broken",
				"sessions": [
					{"id": "ok", "subjectId": "s1", "day": 0, "start": 540, "end": 630, "sessionType": "Lecture"},
					{"id": "bad", "subjectId": "s1", "day": 0, "start": 700, "end": 700, "sessionType": "Lecture"}
				]
			},
			"subjects": [{"id": "s1", "code": "CS101", "name": "Intro CS"}]
		}`
		_, _, err := ImportJSON(context.Background(), strings.NewReader(payload))
		var ierr *ImportError
		if !errors.As(err, &ierr) {
			t.Fatalf("err = %v, want ImportError", err)
		}
		if ierr.Entity != "session" || ierr.ID != "bad" {
			t.Errorf("failing entity = %s %s, want session bad", ierr.Entity, ierr.ID)
		}
	})

	t.Run("conflicting sessions reject whole payload", func(t *testing.T) {
		t.Parallel()
		payload := `{
			"timetable": {
				"name": "Clash",
				"sessions": [
					{"id": "a", "subjectId": "s1", "day": 0, "start": 540, "end": 630, "room": "A1", "sessionType": "Lecture"},
					{"id": "b", "subjectId": "s1", "day": 0, "start": 600, "end": 660, "room": "A1", "sessionType": "Lecture"}
				]
			},
			"subjects": [{"id": "s1", "code": "CS101", "name": "Intro CS"}]
		}`
		_, _, err := ImportJSON(context.Background(), strings.NewReader(payload))
		var ierr *ImportError
		if !errors.As(err, &ierr) {
			t.Fatalf("err = %v, want ImportError", err)
		}
		var cerr *schedule.ConflictError
		if !errors.As(err, &cerr) {
			t.Errorf("underlying error %v, want ConflictError", ierr.Err)
		}
	})

	t.Run("session referencing unknown subject", func(t *testing.T) {
		t.Parallel()
		payload := `{
			"timetable": {
				"name": "Dangling",
				"sessions": [{"id": "a", "subjectId": "ghost", "day": 0, "start": 540, "end": 630, "sessionType": "Lecture"}]
			},
			"subjects": []
		}`
		if _, _, err := ImportJSON(context.Background(), strings.NewReader(payload)); err == nil {
			t.Error("expected rejection for dangling subject reference")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		if _, _, err := ImportJSON(context.Background(), strings.NewReader("{{")); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		payload := `{
			"timetable": {"name": "T", "sessions": [{"id": "a", "subjectId": "s1", "day": 0, "start": 540, "end": 630, "sessionType": "Lecture"}]},
			"subjects": [{"id": "s1", "code": "CS101", "name": "Intro CS"}]
		}`
		if _, _, err := ImportJSON(ctx, strings.NewReader(payload)); !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}
