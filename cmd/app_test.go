package cmd

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/papapumpkin/tabula/internal/config"
	"github.com/papapumpkin/tabula/internal/schedule"
	"github.com/papapumpkin/tabula/internal/timegrid"
)

func testApp(t *testing.T) (*app, schedule.Subject) {
	t.Helper()
	a := &app{
		cfg:  config.Config{DefaultSessionMinutes: 60},
		repo: schedule.New(zerolog.Nop()),
	}
	sub, err := a.repo.CreateSubject(schedule.Subject{Code: "CS101", Name: "Intro CS"})
	if err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}
	return a, sub
}

func TestBuildSession(t *testing.T) {
	t.Parallel()

	t.Run("explicit times", func(t *testing.T) {
		t.Parallel()
		a, sub := testApp(t)
		s, err := a.buildSession(sessionFlags{
			subject: "CS101", day: "monday", start: "09:00", end: "10:30", room: " A1 ", typ: "lab",
		})
		if err != nil {
			t.Fatalf("buildSession: %v", err)
		}
		if s.SubjectID != sub.ID {
			t.Errorf("SubjectID = %q, want %q (resolved by code)", s.SubjectID, sub.ID)
		}
		if s.Day != timegrid.Monday || s.Start != 540 || s.End != 630 {
			t.Errorf("slot = %v %d-%d", s.Day, s.Start, s.End)
		}
		if s.Room != "A1" {
			t.Errorf("Room = %q, want trimmed A1", s.Room)
		}
		if s.Type != schedule.Lab {
			t.Errorf("Type = %q, want Lab", s.Type)
		}
	})

	t.Run("end defaults from session length", func(t *testing.T) {
		t.Parallel()
		a, _ := testApp(t)
		s, err := a.buildSession(sessionFlags{subject: "CS101", day: "Tue", start: "14:00"})
		if err != nil {
			t.Fatalf("buildSession: %v", err)
		}
		if s.End != 900 {
			t.Errorf("End = %d, want 900 (14:00 + 60m)", s.End)
		}
		if s.Type != schedule.Lecture {
			t.Errorf("Type = %q, want default Lecture", s.Type)
		}
	})

	t.Run("predefined slot", func(t *testing.T) {
		t.Parallel()
		a, _ := testApp(t)
		s, err := a.buildSession(sessionFlags{subject: "CS101", day: "Wed", slot: 2})
		if err != nil {
			t.Fatalf("buildSession: %v", err)
		}
		if s.Start != 540 || s.End != 600 {
			t.Errorf("slot 2 = %d-%d, want 540-600", s.Start, s.End)
		}
	})

	t.Run("slot out of range", func(t *testing.T) {
		t.Parallel()
		a, _ := testApp(t)
		if _, err := a.buildSession(sessionFlags{subject: "CS101", day: "Wed", slot: 11}); err == nil {
			t.Error("expected error for slot 11")
		}
	})

	t.Run("unknown subject", func(t *testing.T) {
		t.Parallel()
		a, _ := testApp(t)
		if _, err := a.buildSession(sessionFlags{subject: "NOPE", day: "Mon", start: "09:00"}); err == nil {
			t.Error("expected error for unknown subject")
		}
	})
}
