package store

import (
	"context"
	"fmt"
)

// Generic best-effort read helpers. Table and column names are validated
// through SafeIdentifier before interpolation; an unsafe identifier is a
// hard error while execution failures degrade to empty results, matching
// the helpers' role as convenience reads behind UI lookups.

// GetID returns the first idColumn value in table where nameColumn equals
// nameValue. condition, when non-empty, is appended to the WHERE clause
// verbatim and must be an internally constructed expression (numeric IDs,
// never user text). ok is false when no row matches.
func (e *Executor) GetID(ctx context.Context, table, nameColumn string, nameValue any, idColumn, condition string) (id int64, ok bool, err error) {
	table, err = SafeIdentifier(table)
	if err != nil {
		return 0, false, err
	}
	nameColumn, err = SafeIdentifier(nameColumn)
	if err != nil {
		return 0, false, err
	}
	idColumn, err = SafeIdentifier(idColumn)
	if err != nil {
		return 0, false, err
	}

	text := fmt.Sprintf("SELECT %s FROM %s WHERE %s = :name", idColumn, table, nameColumn)
	if condition != "" {
		text += " AND " + condition
	}

	rows, err := e.FetchAll(ctx, text, Params{"name": nameValue})
	if err != nil || len(rows) == 0 || len(rows[0]) == 0 {
		return 0, false, nil
	}
	n, ok := AsInt64(rows[0][0])
	return n, ok, nil
}

// GetItems returns every value of column in table as a flat list.
// condition and orderBy are appended verbatim when non-empty; like GetID's
// condition they are for trusted, internally built expressions only.
func (e *Executor) GetItems(ctx context.Context, table, column, condition, orderBy string) ([]any, error) {
	table, err := SafeIdentifier(table)
	if err != nil {
		return nil, err
	}
	column, err = SafeIdentifier(column)
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf("SELECT %s FROM %s", column, table)
	if condition != "" {
		text += " WHERE " + condition
	}
	if orderBy != "" {
		text += " ORDER BY " + orderBy
	}

	rows, err := e.FetchAll(ctx, text, nil)
	if err != nil {
		return nil, nil
	}
	items := make([]any, 0, len(rows))
	for _, row := range rows {
		if len(row) > 0 {
			items = append(items, row[0])
		}
	}
	return items, nil
}

// GetRows executes text and fetches the whole result set, degrading to an
// empty list on any failure. Callers that need the typed error use
// FetchAll directly.
func (e *Executor) GetRows(ctx context.Context, text string, params Params) []Row {
	rows, err := e.FetchAll(ctx, text, params)
	if err != nil {
		return nil
	}
	return rows
}
