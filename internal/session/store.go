// Package session persists the authenticated session across process
// restarts. The backing store is a small SQLite key-value table; the rest of
// the program only ever sees a complete Session or nothing.
package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	keyToken    = "auth_token"
	keyUsername = "username"
)

// Session is the authenticated identity held for the duration of a login.
// Invariant: both fields set or the session does not exist — a partial
// session is never observable.
type Session struct {
	Token    string
	Username string
}

// Store wraps the durable key-value table. All failures on the read path are
// folded into "absent": the client fails open into the logged-out state and
// never into a half-valid session.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Open initializes the store at path, creating parent directories and the
// table as needed.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	// Single writer, single connection. WAL keeps restarts cheap.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		log.Debug("set busy_timeout failed", zap.Error(err))
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		log.Debug("set journal_mode=WAL failed", zap.Error(err))
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS session (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init session table: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Save writes token and username atomically. A partial session is rejected
// up front rather than half-written.
func (s *Store) Save(sess Session) error {
	if sess.Token == "" || sess.Username == "" {
		return fmt.Errorf("refusing to persist partial session")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	for k, v := range map[string]string{keyToken: sess.Token, keyUsername: sess.Username} {
		if _, err := tx.Exec(
			"INSERT INTO session (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
			k, v,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("save session: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	s.log.Debug("session persisted", zap.String("username", sess.Username))
	return nil
}

// Load returns the persisted session, or ok=false when either field is
// missing or the storage layer fails.
func (s *Store) Load() (Session, bool) {
	rows, err := s.db.Query("SELECT key, value FROM session WHERE key IN (?, ?)", keyToken, keyUsername)
	if err != nil {
		s.log.Debug("session load failed", zap.Error(err))
		return Session{}, false
	}
	defer rows.Close()

	var sess Session
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return Session{}, false
		}
		switch k {
		case keyToken:
			sess.Token = v
		case keyUsername:
			sess.Username = v
		}
	}
	if err := rows.Err(); err != nil {
		return Session{}, false
	}
	if sess.Token == "" || sess.Username == "" {
		return Session{}, false
	}
	return sess, true
}

// Clear removes both fields in one transaction. Clearing an empty store is a
// no-op, not an error.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM session WHERE key IN (?, ?)", keyToken, keyUsername); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.log.Debug("session cleared")
	return nil
}
