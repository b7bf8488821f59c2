package schedule

import (
	"testing"

	"github.com/papapumpkin/tabula/internal/timegrid"
)

func testSession(id, subjectID string, day timegrid.Day, start, end timegrid.Minutes, room string) Session {
	return Session{
		ID:        id,
		SubjectID: subjectID,
		Day:       day,
		Start:     start,
		End:       end,
		Room:      room,
		Type:      Lecture,
	}
}

func TestCheckConflict(t *testing.T) {
	t.Parallel()

	base := Timetable{
		ID:   "tt",
		Name: "Fall",
		Sessions: []Session{
			testSession("s1", "cs101", timegrid.Monday, 540, 630, "A1"),
			testSession("s2", "ma201", timegrid.Monday, 660, 720, "A1"),
			testSession("s3", "cs101", timegrid.Tuesday, 540, 630, "A1"),
		},
	}

	t.Run("same room overlap is hard", func(t *testing.T) {
		t.Parallel()
		cand := testSession("", "ph101", timegrid.Monday, 600, 690, "A1")
		res := CheckConflict(base, cand, "")
		if len(res.Hard) != 2 || res.Hard[0] != "s1" || res.Hard[1] != "s2" {
			t.Errorf("Hard = %v, want [s1 s2]", res.Hard)
		}
		if !res.HasHard() {
			t.Error("HasHard() = false, want true")
		}
	})

	t.Run("room match is case-insensitive", func(t *testing.T) {
		t.Parallel()
		cand := testSession("", "ph101", timegrid.Monday, 600, 620, "a1")
		res := CheckConflict(base, cand, "")
		if len(res.Hard) != 1 || res.Hard[0] != "s1" {
			t.Errorf("Hard = %v, want [s1]", res.Hard)
		}
	})

	t.Run("different room same subject is soft", func(t *testing.T) {
		t.Parallel()
		cand := testSession("", "cs101", timegrid.Monday, 600, 690, "B2")
		res := CheckConflict(base, cand, "")
		if res.HasHard() {
			t.Errorf("unexpected hard conflicts %v", res.Hard)
		}
		if len(res.Soft) != 1 || res.Soft[0] != "s1" {
			t.Errorf("Soft = %v, want [s1]", res.Soft)
		}
	})

	t.Run("abutting sessions never conflict", func(t *testing.T) {
		t.Parallel()
		cand := testSession("", "cs101", timegrid.Monday, 630, 660, "A1")
		res := CheckConflict(base, cand, "")
		if res.HasHard() || len(res.Soft) != 0 {
			t.Errorf("boundary touch flagged: hard=%v soft=%v", res.Hard, res.Soft)
		}
	})

	t.Run("other day never conflicts", func(t *testing.T) {
		t.Parallel()
		cand := testSession("", "cs101", timegrid.Wednesday, 540, 630, "A1")
		res := CheckConflict(base, cand, "")
		if res.HasHard() || len(res.Soft) != 0 {
			t.Errorf("cross-day conflict: hard=%v soft=%v", res.Hard, res.Soft)
		}
	})

	t.Run("empty rooms never hard-conflict", func(t *testing.T) {
		t.Parallel()
		tt := Timetable{Sessions: []Session{
			testSession("s1", "cs101", timegrid.Monday, 540, 630, ""),
		}}
		cand := testSession("", "ma201", timegrid.Monday, 540, 630, "")
		res := CheckConflict(tt, cand, "")
		if res.HasHard() {
			t.Errorf("roomless sessions hard-conflicted: %v", res.Hard)
		}
	})

	t.Run("exclude id skips the edited session", func(t *testing.T) {
		t.Parallel()
		// Moving s1 a few minutes later must not collide with itself.
		cand := testSession("s1", "cs101", timegrid.Monday, 545, 635, "A1")
		res := CheckConflict(base, cand, "s1")
		if res.HasHard() {
			t.Errorf("session conflicted with itself: %v", res.Hard)
		}
	})

	t.Run("unsorted session set", func(t *testing.T) {
		t.Parallel()
		tt := Timetable{Sessions: []Session{
			testSession("late", "cs101", timegrid.Monday, 900, 960, "A1"),
			testSession("early", "cs101", timegrid.Monday, 480, 540, "A1"),
			testSession("mid", "cs101", timegrid.Monday, 600, 660, "A1"),
		}}
		cand := testSession("", "cs101", timegrid.Monday, 500, 620, "A1")
		res := CheckConflict(tt, cand, "")
		if len(res.Hard) != 2 {
			t.Errorf("Hard = %v, want the early and mid sessions", res.Hard)
		}
	})
}
