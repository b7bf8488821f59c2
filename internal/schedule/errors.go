package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for repository operations.
var (
	// ErrNotFound indicates an operation referenced an unknown entity id.
	ErrNotFound = errors.New("entity not found")
	// ErrReferencedEntity indicates a delete was blocked because sessions
	// still reference the entity.
	ErrReferencedEntity = errors.New("entity is still referenced by sessions")
	// ErrDuplicateID indicates two entities in a payload share an id.
	ErrDuplicateID = errors.New("duplicate entity id")
)

// ValidationCategory classifies a validation error for programmatic handling.
type ValidationCategory string

const (
	// ValCatEmptyField indicates a required field is empty.
	ValCatEmptyField ValidationCategory = "empty_field"
	// ValCatBadInterval indicates start/end do not form a valid interval.
	ValCatBadInterval ValidationCategory = "bad_interval"
	// ValCatBadValue indicates a field holds an out-of-range or unknown value.
	ValCatBadValue ValidationCategory = "bad_value"
	// ValCatUnknownRef indicates a reference to a non-existent entity.
	ValCatUnknownRef ValidationCategory = "unknown_ref"
)

// ValidationError records a malformed entity with field context.
type ValidationError struct {
	Category ValidationCategory
	Entity   string // "subject", "session", or "timetable"
	ID       string
	Field    string
	Err      error
}

// Error returns a human-readable string including entity and field context.
func (e *ValidationError) Error() string {
	id := e.ID
	if id == "" {
		id = "(new)"
	}
	return fmt.Sprintf("%s %s: field %s: %v", e.Entity, id, e.Field, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ConflictError reports a hard scheduling conflict. The mutation was
// rejected; Conflicting lists the ids of the sessions that blocked it.
type ConflictError struct {
	Conflicting []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("session conflicts with existing session(s) %s",
		strings.Join(e.Conflicting, ", "))
}

// FlushError reports that a mutation was applied in memory but the
// post-mutation flush to durable storage failed. The repository remains
// valid; retrying the save is the recovery path.
type FlushError struct {
	Err error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("change applied but not saved to disk: %v", e.Err)
}

func (e *FlushError) Unwrap() error {
	return e.Err
}
