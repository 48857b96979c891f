// Package journal keeps a SQLite log of every terminal pipeline outcome.
// It exists for operator inspection; journal failures never fail a message.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"taskdesk/pkg/logx"
)

const schema = `
CREATE TABLE IF NOT EXISTS outcomes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	uid        TEXT NOT NULL,
	message_id TEXT NOT NULL,
	outcome    TEXT NOT NULL,
	detail     TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_outcomes_message_id ON outcomes(message_id);
`

// Entry is one journaled terminal outcome.
type Entry struct {
	UID       string
	MessageID string
	Outcome   string
	Detail    string
	CreatedAt time.Time
}

// Journal wraps the SQLite connection.
type Journal struct {
	db     *sql.DB
	logger *logx.Logger
}

// Open opens (or creates) the journal database at path.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping journal database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Journal{
		db:     db,
		logger: logx.NewLogger("journal"),
	}, nil
}

// Append records a terminal outcome. A zero UID or CreatedAt is filled in.
func (j *Journal) Append(e Entry) error {
	if e.MessageID == "" {
		return fmt.Errorf("message_id cannot be empty")
	}
	if e.Outcome == "" {
		return fmt.Errorf("outcome cannot be empty")
	}
	if e.UID == "" {
		e.UID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := j.db.Exec(
		`INSERT INTO outcomes (uid, message_id, outcome, detail, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.UID, e.MessageID, e.Outcome, e.Detail, e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

// Recent returns up to n most recent entries, newest first.
func (j *Journal) Recent(n int) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT uid, message_id, outcome, detail, created_at FROM outcomes ORDER BY id DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.UID, &e.MessageID, &e.Outcome, &e.Detail, &created); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		if t, perr := time.Parse(time.RFC3339, created); perr == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal row iteration failed: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if err := j.db.Close(); err != nil {
		return fmt.Errorf("failed to close journal database: %w", err)
	}
	return nil
}
