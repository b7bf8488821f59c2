// Package history keeps a journal of every successful repository mutation
// in a local SQLite database, so users can answer "what changed and when"
// after the fact. The journal is advisory: failures to record are logged
// and never fail the mutation that triggered them.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// schema contains the DDL executed on first open. Using IF NOT EXISTS
// makes it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS journal (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    op          TEXT NOT NULL,
    entity_kind TEXT NOT NULL,
    entity_id   TEXT NOT NULL,
    detail      TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS journal_entity ON journal(entity_id);
`

// Entry is one journaled mutation.
type Entry struct {
	ID         int64
	Op         string // "create", "update", "delete", "add", "remove", "rename", "import"
	EntityKind string // "subject", "session", "timetable"
	EntityID   string
	Detail     string
	CreatedAt  time.Time
}

// Journal records mutations in a local SQLite database. A nil *Journal is
// a valid no-op journal.
type Journal struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens (or creates) the journal database at dbPath, enables WAL
// mode and a busy timeout, and creates the schema if needed.
func Open(ctx context.Context, dbPath string, log zerolog.Logger) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	// One connection: SQLite supports a single writer, and one connection
	// avoids SQLITE_BUSY contention between pooled connections that each
	// need their own PRAGMA setup.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}

	return &Journal{db: db, log: log}, nil
}

// Record inserts one journal row. Implements schedule.Journal. Errors are
// logged, not returned: a journal hiccup must never fail a user mutation.
// Calling Record on a nil Journal is a no-op.
func (j *Journal) Record(op, entityKind, entityID, detail string) {
	if j == nil {
		return
	}
	const q = `INSERT INTO journal (op, entity_kind, entity_id, detail) VALUES (?, ?, ?, ?)`
	if _, err := j.db.Exec(q, op, entityKind, entityID, detail); err != nil {
		j.log.Warn().Err(err).Str("op", op).Str("entity", entityID).Msg("history: record failed")
	}
}

// Recent returns the newest limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if j == nil {
		return nil, nil
	}
	const q = `SELECT id, op, entity_kind, entity_id, detail, created_at
		FROM journal ORDER BY id DESC LIMIT ?`
	return j.query(ctx, q, limit)
}

// ForEntity returns all entries touching one entity id, oldest first.
func (j *Journal) ForEntity(ctx context.Context, entityID string) ([]Entry, error) {
	if j == nil {
		return nil, nil
	}
	const q = `SELECT id, op, entity_kind, entity_id, detail, created_at
		FROM journal WHERE entity_id = ? ORDER BY id`
	return j.query(ctx, q, entityID)
}

func (j *Journal) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&e.ID, &e.Op, &e.EntityKind, &e.EntityID, &e.Detail, &ts); err != nil {
			return nil, fmt.Errorf("history: scan entry: %w", err)
		}
		created, perr := parseTimestamp(ts)
		if perr != nil {
			return nil, fmt.Errorf("history: parse timestamp: %w", perr)
		}
		e.CreatedAt = created
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate entries: %w", err)
	}
	return out, nil
}

// timestampFormats lists the formats SQLite drivers may produce for
// CURRENT_TIMESTAMP. modernc.org/sqlite typically returns RFC 3339, while
// canonical SQLite returns the space-separated DateTime format.
var timestampFormats = []string{
	time.RFC3339,
	time.DateTime,
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
}

// Close releases the database connection. Calling Close on a nil Journal
// is a no-op.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.db.Close()
}
