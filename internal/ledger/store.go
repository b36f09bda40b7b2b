// Package ledger keeps a SQLite record of every decision made at the desk.
package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/zeusync/deskcheck/internal/desk/round"
)

var ErrSessionNotFound = errors.New("session not found")

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id  TEXT PRIMARY KEY,
	label       TEXT NOT NULL,
	seed        INTEGER NOT NULL,
	started_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS decisions (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id      TEXT NOT NULL,
	round           INTEGER NOT NULL,
	object_id       TEXT NOT NULL,
	decision        TEXT NOT NULL,
	valid           INTEGER NOT NULL,
	correct         INTEGER NOT NULL,
	correct_total   INTEGER NOT NULL,
	mistakes_total  INTEGER NOT NULL,
	created_at      TEXT NOT NULL,
	FOREIGN KEY (session_id) REFERENCES sessions(session_id)
);

CREATE INDEX IF NOT EXISTS decisions_by_session ON decisions(session_id, round);
`

type Config struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

func DefaultConfig() Config {
	return Config{Path: "deskcheck.db"}
}

func (c Config) Validate() error {
	if c.Enabled && c.Path == "" {
		return errors.New("ledger: path is required when enabled")
	}
	return nil
}

// Session is one continuous run of the desk.
type Session struct {
	ID        string
	Label     string
	Seed      uint64
	StartedAt time.Time
}

// Summary totals the decisions of a session.
type Summary struct {
	Decisions int
	Correct   int
	Mistakes  int
	Accepted  int
	Rejected  int
}

// Store is safe for concurrent use; writes are serialized on one connection.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and migrates it.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// NewSession starts a session and returns it.
func (s *Store) NewSession(label string, seed uint64) (Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		Label:     label,
		Seed:      seed,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO sessions (session_id, label, seed, started_at) VALUES (?, ?, ?, ?)`,
		sess.ID, sess.Label, int64(sess.Seed), sess.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

// Record appends one decision to a session.
func (s *Store) Record(sessionID string, o round.Outcome) error {
	at := o.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO decisions
		 (session_id, round, object_id, decision, valid, correct, correct_total, mistakes_total, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, o.Round, o.ObjectID, o.Decision.String(), o.Valid, o.Correct,
		o.Tally.Correct, o.Tally.Mistakes, at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// Session loads a session by id.
func (s *Store) Session(id string) (Session, error) {
	var (
		sess    Session
		seed    int64
		started string
	)
	err := s.db.QueryRow(
		`SELECT session_id, label, seed, started_at FROM sessions WHERE session_id = ?`, id,
	).Scan(&sess.ID, &sess.Label, &seed, &started)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("query session: %w", err)
	}
	sess.Seed = uint64(seed)
	if sess.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return Session{}, fmt.Errorf("parse started_at: %w", err)
	}
	return sess, nil
}

// Decisions lists the decisions of a session in round order.
func (s *Store) Decisions(sessionID string) ([]round.Outcome, error) {
	rows, err := s.db.Query(
		`SELECT round, object_id, decision, valid, correct, correct_total, mistakes_total, created_at
		 FROM decisions WHERE session_id = ? ORDER BY round, id`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var out []round.Outcome
	for rows.Next() {
		var (
			o        round.Outcome
			decision string
			created  string
		)
		if err := rows.Scan(&o.Round, &o.ObjectID, &decision, &o.Valid, &o.Correct,
			&o.Tally.Correct, &o.Tally.Mistakes, &created); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		if o.Decision, err = round.ParseDecision(decision); err != nil {
			return nil, err
		}
		if o.At, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Summary totals a session. Unknown sessions give ErrSessionNotFound.
func (s *Store) Summary(sessionID string) (Summary, error) {
	if _, err := s.Session(sessionID); err != nil {
		return Summary{}, err
	}
	var sum Summary
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(correct), 0),
		        COALESCE(SUM(1 - correct), 0),
		        COALESCE(SUM(CASE WHEN decision = 'accept' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN decision = 'reject' THEN 1 ELSE 0 END), 0)
		 FROM decisions WHERE session_id = ?`, sessionID,
	).Scan(&sum.Decisions, &sum.Correct, &sum.Mistakes, &sum.Accepted, &sum.Rejected)
	if err != nil {
		return Summary{}, fmt.Errorf("query summary: %w", err)
	}
	return sum, nil
}

// Recorder binds a session so the round sequencer can report to it.
func (s *Store) Recorder(sessionID string) round.Recorder {
	return recorder{store: s, session: sessionID}
}

type recorder struct {
	store   *Store
	session string
}

func (r recorder) Record(o round.Outcome) error {
	return r.store.Record(r.session, o)
}
