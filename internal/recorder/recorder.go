// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/recorder/recorder.go
// Summary: SQLite session log of events delivered to the interpreter.
// Usage: Open a Recorder and pass it as the coordinator's EventRecorder;
//        ReadLast returns the input of the newest session for replay.

package recorder

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/chrender/fizmo-tcell/internal/events"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS sessions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started INTEGER NOT NULL,         -- UnixNano
    title TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id INTEGER NOT NULL REFERENCES sessions(id),
    seq INTEGER NOT NULL,
    timestamp INTEGER NOT NULL,       -- UnixNano
    kind TEXT NOT NULL,
    rune INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id, seq);
`

// Replayable reports whether ev is user input worth recording. Resizes,
// timeouts and quit requests depend on the session they happened in.
func Replayable(ev events.Event) bool {
	switch ev.Kind {
	case events.Nothing, events.Timeout, events.Winch, events.Quit:
		return false
	}
	return true
}

// Recorder appends events to one session in a SQLite database.
type Recorder struct {
	mu      sync.Mutex
	db      *sql.DB
	session int64
	seq     int64
	now     func() time.Time
}

// Open creates or opens the database at path and starts a new session.
func Open(path, title string) (*Recorder, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	r := &Recorder{db: db, now: time.Now}
	res, err := db.Exec("INSERT INTO sessions (started, title) VALUES (?, ?)", r.now().UnixNano(), title)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "recorder: start session")
	}
	if r.session, err = res.LastInsertId(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "recorder: session id")
	}
	log.Printf("Recorder: session %d in %s", r.session, path)
	return r, nil
}

func openDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "recorder: create directory")
	}
	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(2000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "recorder: open database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "recorder: connect")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "recorder: create schema")
	}
	if err := checkSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func checkSchema(db *sql.DB) error {
	var version int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion)
		return errors.Wrap(err, "recorder: set schema version")
	case err != nil:
		return errors.Wrap(err, "recorder: read schema version")
	case version != schemaVersion:
		return errors.Errorf("recorder: unsupported schema version %d", version)
	}
	return nil
}

// Session is the id of the session being recorded.
func (r *Recorder) Session() int64 { return r.session }

// Record appends ev if it is replayable.
func (r *Recorder) Record(ev events.Event) error {
	if !Replayable(ev) {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db == nil {
		return errors.New("recorder: closed")
	}
	r.seq++
	_, err := r.db.Exec(
		"INSERT INTO events (session_id, seq, timestamp, kind, rune) VALUES (?, ?, ?, ?, ?)",
		r.session, r.seq, r.now().UnixNano(), ev.Kind.String(), int64(ev.Rune),
	)
	return errors.Wrap(err, "recorder: insert event")
}

// Close releases the database.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// ReadLast returns the events of the newest session in the database at path
// that recorded any input.
func ReadLast(path string) ([]events.Event, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(err, "recorder: replay file")
	}
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var session sql.NullInt64
	if err := db.QueryRow("SELECT MAX(session_id) FROM events").Scan(&session); err != nil {
		return nil, errors.Wrap(err, "recorder: find last session")
	}
	if !session.Valid {
		return nil, nil
	}
	return readSession(db, session.Int64)
}

func readSession(db *sql.DB, session int64) ([]events.Event, error) {
	rows, err := db.Query("SELECT kind, rune FROM events WHERE session_id = ? ORDER BY seq", session)
	if err != nil {
		return nil, errors.Wrap(err, "recorder: query events")
	}
	defer rows.Close()

	var out []events.Event
	for rows.Next() {
		var (
			name string
			r    int64
		)
		if err := rows.Scan(&name, &r); err != nil {
			return nil, errors.Wrap(err, "recorder: scan event")
		}
		kind, ok := events.ParseKind(name)
		if !ok {
			log.Warnf("Recorder: skipping unknown event kind %q", name)
			continue
		}
		out = append(out, events.Event{Kind: kind, Rune: rune(r)})
	}
	return out, errors.Wrap(rows.Err(), "recorder: read events")
}
