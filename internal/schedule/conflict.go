package schedule

import (
	"strings"

	"github.com/papapumpkin/tabula/internal/timegrid"
)

// ConflictResult is the outcome of checking a candidate session against a
// timetable. Hard conflicts (same room, same day, overlapping time) block
// the mutation; soft conflicts (same subject double-booked) are advisory.
type ConflictResult struct {
	Hard []string // session ids occupying the same room and time
	Soft []string // session ids double-booking the same subject
}

// HasHard reports whether the candidate must be rejected.
func (r ConflictResult) HasHard() bool {
	return len(r.Hard) > 0
}

// CheckConflict scans the timetable's sessions for collisions with the
// candidate. excludeID names a session to skip, so that an edited session
// does not conflict with its own previous placement. The scan is linear
// and makes no ordering assumption about the session set.
//
// Room matching is case-insensitive and only applies when both rooms are
// non-empty; two roomless sessions never hard-conflict. Time comparison is
// half-open, so sessions that abut at a boundary do not collide.
func CheckConflict(t Timetable, candidate Session, excludeID string) ConflictResult {
	var res ConflictResult
	candRoom := strings.TrimSpace(candidate.Room)
	candIv := candidate.Interval()

	for _, s := range t.Sessions {
		if s.ID == excludeID || s.ID == candidate.ID {
			continue
		}
		if s.Day != candidate.Day {
			continue
		}
		if !timegrid.Overlaps(s.Interval(), candIv) {
			continue
		}
		room := strings.TrimSpace(s.Room)
		if candRoom != "" && room != "" && strings.EqualFold(room, candRoom) {
			res.Hard = append(res.Hard, s.ID)
			continue
		}
		if s.SubjectID == candidate.SubjectID {
			res.Soft = append(res.Soft, s.ID)
		}
	}
	return res
}
