package store

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection reports that the store file could not be opened or
	// reopened. Fatal to the owning tracker window.
	ErrConnection = errors.New("database connection not available")

	// ErrNoSession reports that a query was attempted while the session
	// could not be made usable. Query calls short-circuit on it before
	// touching the driver.
	ErrNoSession = errors.New("no usable session")

	// ErrInvalidIdentifier reports an unsafe table or column name passed to
	// a generic helper. This is a programming error: identifiers never come
	// from user input.
	ErrInvalidIdentifier = errors.New("invalid SQL identifier")
)

// QueryStage tells apart a statement that failed to prepare (malformed
// SQL) from one that failed to execute (constraint violation, locked
// database, type mismatch).
type QueryStage int

const (
	StagePrepare QueryStage = iota
	StageExecute
)

func (s QueryStage) String() string {
	if s == StagePrepare {
		return "prepare"
	}
	return "execute"
}

// QueryError wraps a driver failure with the failing stage and statement.
type QueryError struct {
	Stage QueryStage
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s query: %v", e.Stage, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
