package schedule

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Journal receives a record of every successful mutation. A nil Journal is
// valid and disables journaling. Implementations must not block; failures
// are the implementation's to report (the repository never fails a user
// mutation over a journal write).
type Journal interface {
	Record(op, entityKind, entityID, detail string)
}

// Repository is the root aggregate: it owns the global subject collection
// and every timetable, and is the only writer of the durable store. All
// access goes through its methods; mutations are serialized by a write
// lock and reads return copies, so callers never observe torn state.
type Repository struct {
	mu         sync.RWMutex
	subjects   map[string]Subject
	timetables map[string]Timetable
	active     string

	cascadeDelete bool
	log           zerolog.Logger
	journal       Journal
	flush         func(Snapshot) error
}

// New returns an empty repository.
func New(log zerolog.Logger) *Repository {
	return &Repository{
		subjects:   make(map[string]Subject),
		timetables: make(map[string]Timetable),
		log:        log,
	}
}

// FromSnapshot builds a repository from loaded state, validating every
// entity and the referential integrity between sessions and subjects.
// Any failure means the snapshot cannot be trusted.
func FromSnapshot(snap Snapshot, log zerolog.Logger) (*Repository, error) {
	r := New(log)
	for _, s := range snap.Subjects {
		if s.ID == "" {
			return nil, fmt.Errorf("subject %q: missing id", s.Code)
		}
		if _, dup := r.subjects[s.ID]; dup {
			return nil, fmt.Errorf("subject %s: %w", s.ID, ErrDuplicateID)
		}
		if err := ValidateSubject(s); err != nil {
			return nil, err
		}
		r.subjects[s.ID] = s
	}
	for _, t := range snap.Timetables {
		if t.ID == "" {
			return nil, fmt.Errorf("timetable %q: missing id", t.Name)
		}
		if _, dup := r.timetables[t.ID]; dup {
			return nil, fmt.Errorf("timetable %s: %w", t.ID, ErrDuplicateID)
		}
		if err := ValidateTimetable(t, r.subjectExists); err != nil {
			return nil, err
		}
		r.timetables[t.ID] = t.clone()
	}
	return r, nil
}

// SetFlushHook installs the post-mutation save hook. The hook runs inside
// the write lock with a snapshot of the new state, so a flush can never
// observe a half-applied mutation.
func (r *Repository) SetFlushHook(fn func(Snapshot) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flush = fn
}

// SetJournal installs the mutation journal.
func (r *Repository) SetJournal(j Journal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.journal = j
}

// SetCascadeDelete switches subject deletion from blocking on references
// (the default) to cascading removal of dependent sessions.
func (r *Repository) SetCascadeDelete(cascade bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cascadeDelete = cascade
}

// Snapshot returns a deep copy of the full repository state, with
// subjects sorted by code and timetables by name for stable output.
func (r *Repository) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

func (r *Repository) snapshotLocked() Snapshot {
	snap := Snapshot{
		Subjects:   make([]Subject, 0, len(r.subjects)),
		Timetables: make([]Timetable, 0, len(r.timetables)),
	}
	for _, s := range r.subjects {
		snap.Subjects = append(snap.Subjects, s)
	}
	sort.Slice(snap.Subjects, func(i, j int) bool {
		return snap.Subjects[i].Code < snap.Subjects[j].Code
	})
	for _, t := range r.timetables {
		snap.Timetables = append(snap.Timetables, t.clone())
	}
	sort.Slice(snap.Timetables, func(i, j int) bool {
		return snap.Timetables[i].Name < snap.Timetables[j].Name
	})
	return snap
}

// commit journals and flushes after a successful mutation. Must be called
// with the write lock held. A flush failure leaves memory state intact and
// is reported as a FlushError.
func (r *Repository) commit(op, kind, id, detail string) error {
	if r.journal != nil {
		r.journal.Record(op, kind, id, detail)
	}
	if r.flush == nil {
		return nil
	}
	if err := r.flush(r.snapshotLocked()); err != nil {
		r.log.Error().Err(err).Str("op", op).Msg("flush after mutation failed")
		return &FlushError{Err: err}
	}
	return nil
}

func (r *Repository) subjectExists(id string) bool {
	_, ok := r.subjects[id]
	return ok
}

// CreateSubject validates the subject, assigns it an id, and defaults its
// color from the palette when unset.
func (r *Repository) CreateSubject(s Subject) (Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = uuid.NewString()
	if strings.TrimSpace(s.Color) == "" {
		s.Color = defaultPalette[len(r.subjects)%len(defaultPalette)]
	}
	if err := ValidateSubject(s); err != nil {
		return Subject{}, err
	}
	r.subjects[s.ID] = s
	r.log.Debug().Str("subject", s.ID).Str("code", s.Code).Msg("subject created")
	return s, r.commit("create", "subject", s.ID, s.Code)
}

// UpdateSubject replaces an existing subject's fields. The id must exist
// and is immutable.
func (r *Repository) UpdateSubject(s Subject) (Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subjects[s.ID]; !ok {
		return Subject{}, fmt.Errorf("subject %s: %w", s.ID, ErrNotFound)
	}
	if err := ValidateSubject(s); err != nil {
		return Subject{}, err
	}
	r.subjects[s.ID] = s
	return s, r.commit("update", "subject", s.ID, s.Code)
}

// DeleteSubject removes a subject. When sessions still reference it the
// delete fails with ErrReferencedEntity, unless cascade deletion is
// enabled, in which case the dependent sessions are removed too.
func (r *Repository) DeleteSubject(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.subjects[id]
	if !ok {
		return fmt.Errorf("subject %s: %w", id, ErrNotFound)
	}

	var refs int
	for _, t := range r.timetables {
		for _, sess := range t.Sessions {
			if sess.SubjectID == id {
				refs++
			}
		}
	}
	if refs > 0 && !r.cascadeDelete {
		return fmt.Errorf("subject %s (%s) has %d session(s): %w", id, s.Code, refs, ErrReferencedEntity)
	}
	if refs > 0 {
		now := time.Now()
		for tid, t := range r.timetables {
			kept := t.Sessions[:0]
			for _, sess := range t.Sessions {
				if sess.SubjectID != id {
					kept = append(kept, sess)
				}
			}
			if len(kept) != len(t.Sessions) {
				t.Sessions = kept
				t.ModifiedAt = now
				r.timetables[tid] = t
			}
		}
		r.log.Debug().Str("subject", id).Int("sessions", refs).Msg("cascade-deleted dependent sessions")
	}

	delete(r.subjects, id)
	return r.commit("delete", "subject", id, s.Code)
}

// Subject returns a subject by id.
func (r *Repository) Subject(id string) (Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.subjects[id]
	if !ok {
		return Subject{}, fmt.Errorf("subject %s: %w", id, ErrNotFound)
	}
	return s, nil
}

// SubjectByCode returns a subject by its code (case-insensitive).
func (r *Repository) SubjectByCode(code string) (Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.subjects {
		if strings.EqualFold(s.Code, code) {
			return s, nil
		}
	}
	return Subject{}, fmt.Errorf("subject with code %q: %w", code, ErrNotFound)
}

// Subjects returns all subjects sorted by code.
func (r *Repository) Subjects() []Subject {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Subject, 0, len(r.subjects))
	for _, s := range r.subjects {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// CreateTimetable creates an empty timetable with a fresh id and
// timestamps. The first timetable created becomes the active one.
func (r *Repository) CreateTimetable(name, semester string) (Timetable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	t := Timetable{
		ID:         uuid.NewString(),
		Name:       name,
		Semester:   semester,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if err := ValidateTimetable(t, nil); err != nil {
		return Timetable{}, err
	}
	r.timetables[t.ID] = t
	if r.active == "" {
		r.active = t.ID
	}
	r.log.Debug().Str("timetable", t.ID).Str("name", name).Msg("timetable created")
	return t, r.commit("create", "timetable", t.ID, name)
}

// RenameTimetable updates a timetable's name and semester.
func (r *Repository) RenameTimetable(id, name, semester string) (Timetable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.timetables[id]
	if !ok {
		return Timetable{}, fmt.Errorf("timetable %s: %w", id, ErrNotFound)
	}
	if strings.TrimSpace(name) == "" {
		return Timetable{}, &ValidationError{
			Category: ValCatEmptyField, Entity: "timetable", ID: id,
			Field: "name", Err: fmt.Errorf("must not be empty"),
		}
	}
	t.Name = name
	t.Semester = semester
	t.ModifiedAt = time.Now()
	r.timetables[id] = t
	return t.clone(), r.commit("rename", "timetable", id, name)
}

// DeleteTimetable removes a timetable and all of its sessions. Deleting
// the active timetable clears the active selection.
func (r *Repository) DeleteTimetable(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.timetables[id]
	if !ok {
		return fmt.Errorf("timetable %s: %w", id, ErrNotFound)
	}
	delete(r.timetables, id)
	if r.active == id {
		r.active = ""
	}
	return r.commit("delete", "timetable", id, t.Name)
}

// Timetable returns a deep copy of a timetable by id.
func (r *Repository) Timetable(id string) (Timetable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.timetables[id]
	if !ok {
		return Timetable{}, fmt.Errorf("timetable %s: %w", id, ErrNotFound)
	}
	return t.clone(), nil
}

// TimetableByName returns a deep copy of a timetable by exact name.
func (r *Repository) TimetableByName(name string) (Timetable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.timetables {
		if t.Name == name {
			return t.clone(), nil
		}
	}
	return Timetable{}, fmt.Errorf("timetable %q: %w", name, ErrNotFound)
}

// Timetables returns copies of all timetables sorted by name.
func (r *Repository) Timetables() []Timetable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Timetable, 0, len(r.timetables))
	for _, t := range r.timetables {
		out = append(out, t.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SwitchActive selects the timetable subsequent session commands operate
// on. Pure selection: no validation beyond existence.
func (r *Repository) SwitchActive(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.timetables[id]; !ok {
		return fmt.Errorf("timetable %s: %w", id, ErrNotFound)
	}
	r.active = id
	return nil
}

// Active returns the active timetable id, or empty when none is selected.
func (r *Repository) Active() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// AddSession validates the candidate, checks it against the timetable for
// conflicts, and inserts it with a fresh id. On a hard conflict the state
// is untouched and a *ConflictError carries the blocking session ids; on
// success the returned ConflictResult may still carry soft (advisory)
// conflicts.
func (r *Repository) AddSession(timetableID string, s Session) (Session, ConflictResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.timetables[timetableID]
	if !ok {
		return Session{}, ConflictResult{}, fmt.Errorf("timetable %s: %w", timetableID, ErrNotFound)
	}
	s.ID = uuid.NewString()
	if err := ValidateSession(s, r.subjectExists); err != nil {
		return Session{}, ConflictResult{}, err
	}
	res := CheckConflict(t, s, "")
	if res.HasHard() {
		return Session{}, res, &ConflictError{Conflicting: res.Hard}
	}

	t.Sessions = append(t.Sessions, s)
	t.ModifiedAt = time.Now()
	r.timetables[timetableID] = t
	r.log.Debug().Str("session", s.ID).Str("timetable", timetableID).
		Str("slot", s.Interval().String()).Msg("session added")
	return s, res, r.commit("add", "session", s.ID, sessionDetail(s))
}

// UpdateSession replaces an existing session, re-running validation and
// conflict checks with the session's old placement excluded.
func (r *Repository) UpdateSession(timetableID string, s Session) (Session, ConflictResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.timetables[timetableID]
	if !ok {
		return Session{}, ConflictResult{}, fmt.Errorf("timetable %s: %w", timetableID, ErrNotFound)
	}
	existing := t.session(s.ID)
	if existing == nil {
		return Session{}, ConflictResult{}, fmt.Errorf("session %s: %w", s.ID, ErrNotFound)
	}
	if err := ValidateSession(s, r.subjectExists); err != nil {
		return Session{}, ConflictResult{}, err
	}
	res := CheckConflict(t, s, s.ID)
	if res.HasHard() {
		return Session{}, res, &ConflictError{Conflicting: res.Hard}
	}

	*existing = s
	t.ModifiedAt = time.Now()
	r.timetables[timetableID] = t
	return s, res, r.commit("update", "session", s.ID, sessionDetail(s))
}

// RemoveSession deletes a session from a timetable.
func (r *Repository) RemoveSession(timetableID, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.timetables[timetableID]
	if !ok {
		return fmt.Errorf("timetable %s: %w", timetableID, ErrNotFound)
	}
	idx := -1
	for i := range t.Sessions {
		if t.Sessions[i].ID == sessionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	t.Sessions = append(t.Sessions[:idx], t.Sessions[idx+1:]...)
	t.ModifiedAt = time.Now()
	r.timetables[timetableID] = t
	return r.commit("remove", "session", sessionID, "")
}

// CheckConflict runs a dry conflict check without mutating anything.
func (r *Repository) CheckConflict(timetableID string, candidate Session, excludeID string) (ConflictResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.timetables[timetableID]
	if !ok {
		return ConflictResult{}, fmt.Errorf("timetable %s: %w", timetableID, ErrNotFound)
	}
	return CheckConflict(t, candidate, excludeID), nil
}

// Adopt inserts an imported timetable and any subjects it brought along
// that are not already present, as one atomic commit. The caller is
// expected to have validated the import; Adopt re-validates anyway since
// imported data is not trusted.
func (r *Repository) Adopt(t Timetable, subjects []Subject) (Timetable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	merged := make(map[string]Subject, len(subjects))
	for _, s := range subjects {
		if err := ValidateSubject(s); err != nil {
			return Timetable{}, err
		}
		if _, exists := r.subjects[s.ID]; !exists {
			merged[s.ID] = s
		}
	}
	exists := func(id string) bool {
		if _, ok := r.subjects[id]; ok {
			return true
		}
		_, ok := merged[id]
		return ok
	}
	if err := ValidateTimetable(t, exists); err != nil {
		return Timetable{}, err
	}
	if _, dup := r.timetables[t.ID]; dup {
		return Timetable{}, fmt.Errorf("timetable %s: %w", t.ID, ErrDuplicateID)
	}

	for id, s := range merged {
		r.subjects[id] = s
	}
	r.timetables[t.ID] = t.clone()
	if r.active == "" {
		r.active = t.ID
	}
	return t, r.commit("import", "timetable", t.ID, t.Name)
}

func sessionDetail(s Session) string {
	return fmt.Sprintf("%s %s %s", s.Day, s.Interval(), s.Room)
}
