package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// ValidateSubject checks a subject's fields. The id is not checked here;
// uniqueness is enforced by the repository.
func ValidateSubject(s Subject) error {
	if strings.TrimSpace(s.Code) == "" {
		return &ValidationError{
			Category: ValCatEmptyField, Entity: "subject", ID: s.ID,
			Field: "code", Err: errors.New("must not be empty"),
		}
	}
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{
			Category: ValCatEmptyField, Entity: "subject", ID: s.ID,
			Field: "name", Err: errors.New("must not be empty"),
		}
	}
	if s.Credits < 0 {
		return &ValidationError{
			Category: ValCatBadValue, Entity: "subject", ID: s.ID,
			Field: "credits", Err: fmt.Errorf("must be non-negative, got %d", s.Credits),
		}
	}
	return nil
}

// ValidateSession checks a session's fields against the time model and the
// known session types. subjectExists resolves whether the referenced
// subject is present in the global collection.
func ValidateSession(s Session, subjectExists func(id string) bool) error {
	if strings.TrimSpace(s.SubjectID) == "" {
		return &ValidationError{
			Category: ValCatEmptyField, Entity: "session", ID: s.ID,
			Field: "subjectId", Err: errors.New("must not be empty"),
		}
	}
	if subjectExists != nil && !subjectExists(s.SubjectID) {
		return &ValidationError{
			Category: ValCatUnknownRef, Entity: "session", ID: s.ID,
			Field: "subjectId", Err: fmt.Errorf("subject %q does not exist", s.SubjectID),
		}
	}
	if !s.Day.Valid() {
		return &ValidationError{
			Category: ValCatBadValue, Entity: "session", ID: s.ID,
			Field: "day", Err: fmt.Errorf("invalid weekday ordinal %d", int(s.Day)),
		}
	}
	if !s.Interval().Valid() {
		return &ValidationError{
			Category: ValCatBadInterval, Entity: "session", ID: s.ID,
			Field: "start/end", Err: fmt.Errorf("%s-%s is not a valid interval", s.Start.Clock(), s.End.Clock()),
		}
	}
	if _, err := ParseSessionType(string(s.Type)); err != nil {
		return &ValidationError{
			Category: ValCatBadValue, Entity: "session", ID: s.ID,
			Field: "sessionType", Err: err,
		}
	}
	return nil
}

// ValidateTimetable checks a timetable and all of its sessions, including
// id uniqueness among sessions.
func ValidateTimetable(t Timetable, subjectExists func(id string) bool) error {
	if strings.TrimSpace(t.Name) == "" {
		return &ValidationError{
			Category: ValCatEmptyField, Entity: "timetable", ID: t.ID,
			Field: "name", Err: errors.New("must not be empty"),
		}
	}
	seen := make(map[string]bool, len(t.Sessions))
	for _, s := range t.Sessions {
		if err := ValidateSession(s, subjectExists); err != nil {
			return err
		}
		if s.ID != "" && seen[s.ID] {
			return fmt.Errorf("timetable %s: session %s: %w", t.ID, s.ID, ErrDuplicateID)
		}
		seen[s.ID] = true
	}
	return nil
}
