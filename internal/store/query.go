package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/Harrix/harrix-swiss-knife-sub001/internal/log"
)

// Row is one result record: column values in select order, of
// heterogeneous primitive type (string, int64, float64, nil).
type Row []any

// Params maps named placeholders (":key" in the statement) to bound values.
type Params map[string]any

// Executor is the only place raw parametrised SQL is prepared, bound and
// run. Every call first checks Session.EnsureUsable and short-circuits
// with ErrNoSession before touching the driver, so a dead connection
// degrades to "operation failed" instead of a crash.
type Executor struct {
	sess   *Session
	logger *log.Logger
}

// NewExecutor wraps a session.
func NewExecutor(sess *Session) *Executor {
	return &Executor{
		sess:   sess,
		logger: log.New(log.Config{Component: log.ComponentStore}),
	}
}

// Session returns the underlying session.
func (e *Executor) Session() *Session { return e.sess }

func namedArgs(params Params) []any {
	if len(params) == 0 {
		return nil
	}
	args := make([]any, 0, len(params))
	for key, value := range params {
		args = append(args, sql.Named(key, value))
	}
	return args
}

// paramValues renders bound values for failure logs. Values only: they are
// never re-interpolated into a statement.
func paramValues(params Params) string {
	if len(params) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := "{"
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s=%v", k, params[k])
	}
	return out + "}"
}

// FetchAll prepares and executes text with bound params and materializes
// the whole result set. A session or query failure is logged and returned
// as a typed error; simple best-effort callers go through GetRows instead.
func (e *Executor) FetchAll(ctx context.Context, text string, params Params) ([]Row, error) {
	if !e.sess.EnsureUsable(ctx) {
		e.logger.Error("session unusable", log.FieldQuery, text)
		return nil, ErrNoSession
	}

	stmt, err := e.sess.handle().PrepareContext(ctx, text)
	if err != nil {
		e.logger.Error("failed to prepare query",
			log.FieldQuery, text, log.FieldError, err)
		return nil, &QueryError{Stage: StagePrepare, Query: text, Err: err}
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, namedArgs(params)...)
	if err != nil {
		e.logger.Error("failed to execute query",
			log.FieldQuery, text, log.FieldParams, paramValues(params), log.FieldError, err)
		return nil, &QueryError{Stage: StageExecute, Query: text, Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &QueryError{Stage: StageExecute, Query: text, Err: err}
	}

	var result []Row
	for rows.Next() {
		values := make(Row, len(columns))
		scan := make([]any, len(columns))
		for i := range values {
			scan[i] = &values[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, &QueryError{Stage: StageExecute, Query: text, Err: err}
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result = append(result, values)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Stage: StageExecute, Query: text, Err: err}
	}
	return result, nil
}

// Query prepares and executes text with bound params and hands back the
// live result set. The caller owns rows and must Close them; large scans
// that should not be materialized go through here instead of FetchAll.
func (e *Executor) Query(ctx context.Context, text string, params Params) (*sql.Rows, error) {
	if !e.sess.EnsureUsable(ctx) {
		e.logger.Error("session unusable", log.FieldQuery, text)
		return nil, ErrNoSession
	}

	stmt, err := e.sess.handle().PrepareContext(ctx, text)
	if err != nil {
		e.logger.Error("failed to prepare query",
			log.FieldQuery, text, log.FieldError, err)
		return nil, &QueryError{Stage: StagePrepare, Query: text, Err: err}
	}
	// Stmt.Close is refcounted; the returned rows stay valid.
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, namedArgs(params)...)
	if err != nil {
		e.logger.Error("failed to execute query",
			log.FieldQuery, text, log.FieldParams, paramValues(params), log.FieldError, err)
		return nil, &QueryError{Stage: StageExecute, Query: text, Err: err}
	}
	return rows, nil
}

// Exec runs an INSERT/UPDATE/DELETE statement for effect only. nil means
// success; callers that only need a success flag compare against nil.
func (e *Executor) Exec(ctx context.Context, text string, params Params) error {
	if !e.sess.EnsureUsable(ctx) {
		e.logger.Error("session unusable", log.FieldQuery, text)
		return ErrNoSession
	}

	stmt, err := e.sess.handle().PrepareContext(ctx, text)
	if err != nil {
		e.logger.Error("failed to prepare statement",
			log.FieldQuery, text, log.FieldError, err)
		return &QueryError{Stage: StagePrepare, Query: text, Err: err}
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, namedArgs(params)...); err != nil {
		e.logger.Error("failed to execute statement",
			log.FieldQuery, text, log.FieldParams, paramValues(params), log.FieldError, err)
		return &QueryError{Stage: StageExecute, Query: text, Err: err}
	}
	return nil
}

// ExecReturningID is Exec for INSERT statements that need the new row ID.
func (e *Executor) ExecReturningID(ctx context.Context, text string, params Params) (int64, error) {
	if !e.sess.EnsureUsable(ctx) {
		e.logger.Error("session unusable", log.FieldQuery, text)
		return 0, ErrNoSession
	}

	stmt, err := e.sess.handle().PrepareContext(ctx, text)
	if err != nil {
		e.logger.Error("failed to prepare statement",
			log.FieldQuery, text, log.FieldError, err)
		return 0, &QueryError{Stage: StagePrepare, Query: text, Err: err}
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, namedArgs(params)...)
	if err != nil {
		e.logger.Error("failed to execute statement",
			log.FieldQuery, text, log.FieldParams, paramValues(params), log.FieldError, err)
		return 0, &QueryError{Stage: StageExecute, Query: text, Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &QueryError{Stage: StageExecute, Query: text, Err: err}
	}
	return id, nil
}
