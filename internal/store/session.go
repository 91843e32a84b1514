package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/Harrix/harrix-swiss-knife-sub001/internal/log"

	_ "modernc.org/sqlite"
)

// Session owns one open connection to an embedded database file and keeps
// it usable across driver-level failures. A Session is either fully open
// or explicitly closed; callers never see a half-open state.
//
// The handle is mutable shared state: only one goroutine should be running
// query operations against a given Session at any instant. Callers hold
// the Session reference, never the handle, because reconnection replaces
// the handle in place.
type Session struct {
	mu     sync.Mutex
	path   string
	name   string
	db     *sql.DB
	open   bool
	logger *log.Logger
}

// Open opens (or creates) the SQLite database at path.
func Open(path string) (*Session, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	s := &Session{
		path:   path,
		logger: log.New(log.Config{Component: log.ComponentStore}),
	}
	if err := s.connect(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	s.logger.Info("database opened", log.FieldPath, path, "connection", s.name)
	return s, nil
}

// connect establishes a fresh handle under a new process-unique name.
// Caller must hold mu (or own the session exclusively, as in Open).
func (s *Session) connect() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("open sqlite database: %w", err)
	}

	// Single connection: the trackers are single-writer by design and WAL
	// plus a busy timeout keeps an interleaving background worker from
	// tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return fmt.Errorf("exec %q: %w", pragma, err)
		}
	}

	s.db = db
	s.open = true
	s.name = "session_" + uuid.NewString()[:8]
	return nil
}

// Path returns the database file path the session was opened on.
func (s *Session) Path() string { return s.path }

// EnsureUsable reports whether the connection is currently valid, healing
// it if possible. A closed or failing connection gets one reopen attempt
// on the stored path; if that fails, one full reconnect with a fresh
// handle. Only when both fail does it return false. It never panics or
// surfaces driver errors: callers treat false as "operation failed, no
// rows". Called at the top of every query operation.
func (s *Session) EnsureUsable(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open && s.db != nil {
		err := s.db.PingContext(ctx)
		if err == nil {
			return true
		}
		s.logger.Warn("connection invalid, attempting to reopen",
			log.FieldPath, s.path, log.FieldError, err)
		s.db.Close()
		s.db = nil
		s.open = false
	}

	// Reopen on the stored path.
	if err := s.connect(); err == nil {
		if pingErr := s.db.PingContext(ctx); pingErr == nil {
			s.logger.Info("connection reopened", log.FieldPath, s.path, "connection", s.name)
			return true
		}
		s.db.Close()
		s.db = nil
		s.open = false
	}

	// Full reconnect with a fresh handle.
	s.logger.Warn("reopen failed, attempting full reconnect", log.FieldPath, s.path)
	if err := s.connect(); err != nil {
		s.logger.Error("reconnect failed", log.FieldPath, s.path, log.FieldError, err)
		return false
	}
	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error("reconnect failed", log.FieldPath, s.path, log.FieldError, err)
		s.db.Close()
		s.db = nil
		s.open = false
		return false
	}
	s.logger.Info("connection reestablished", log.FieldPath, s.path, "connection", s.name)
	return true
}

// IsOpen reports whether the session currently holds an open handle. It
// does not probe the driver; use EnsureUsable for that.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open && s.db != nil
}

// handle returns the current driver handle, or nil when closed.
func (s *Session) handle() *sql.DB {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db
}

// Close releases the connection. Idempotent: closing an already-closed
// session is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.open = false
	s.logger.Info("database closed", log.FieldPath, s.path)
	return err
}
