package schedule

import (
	"fmt"
	"sort"

	"github.com/papapumpkin/tabula/internal/timegrid"
)

// Stats summarizes a timetable for display.
type Stats struct {
	TotalSessions     int
	WeeklyMinutes     int            // total scheduled minutes per week
	TotalCredits      int            // sum of credits over distinct scheduled subjects
	PerSubject        map[string]int // subject id -> session count
	BusyMinutesPerDay map[timegrid.Day]int
}

// WeeklyView returns the timetable's sessions grouped by day, each day's
// slice sorted by start time. Days with no sessions are absent from the map.
func (r *Repository) WeeklyView(timetableID string) (map[timegrid.Day][]Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.timetables[timetableID]
	if !ok {
		return nil, fmt.Errorf("timetable %s: %w", timetableID, ErrNotFound)
	}
	view := make(map[timegrid.Day][]Session)
	for _, s := range t.Sessions {
		view[s.Day] = append(view[s.Day], s)
	}
	for d := range view {
		day := view[d]
		sort.Slice(day, func(i, j int) bool {
			if day[i].Start != day[j].Start {
				return day[i].Start < day[j].Start
			}
			return day[i].ID < day[j].ID
		})
	}
	return view, nil
}

// DailyView returns one day's sessions sorted by start time.
func (r *Repository) DailyView(timetableID string, day timegrid.Day) ([]Session, error) {
	view, err := r.WeeklyView(timetableID)
	if err != nil {
		return nil, err
	}
	return view[day], nil
}

// SessionsBySubject returns a timetable's sessions for one subject, sorted
// by day then start time.
func (r *Repository) SessionsBySubject(timetableID, subjectID string) ([]Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.timetables[timetableID]
	if !ok {
		return nil, fmt.Errorf("timetable %s: %w", timetableID, ErrNotFound)
	}
	var out []Session
	for _, s := range t.Sessions {
		if s.SubjectID == subjectID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].Start < out[j].Start
	})
	return out, nil
}

// Stats computes summary statistics for a timetable.
func (r *Repository) Stats(timetableID string) (Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.timetables[timetableID]
	if !ok {
		return Stats{}, fmt.Errorf("timetable %s: %w", timetableID, ErrNotFound)
	}
	st := Stats{
		PerSubject:        make(map[string]int),
		BusyMinutesPerDay: make(map[timegrid.Day]int),
	}
	for _, s := range t.Sessions {
		st.TotalSessions++
		dur := int(s.Interval().Duration())
		st.WeeklyMinutes += dur
		st.BusyMinutesPerDay[s.Day] += dur
		st.PerSubject[s.SubjectID]++
	}
	for id := range st.PerSubject {
		if sub, ok := r.subjects[id]; ok {
			st.TotalCredits += sub.Credits
		}
	}
	return st, nil
}
