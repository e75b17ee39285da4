// SPDX-License-Identifier: GPL-3.0-or-later

package sqlquery

import (
	"context"
	"database/sql"
	"strings"
)

// Queryer is the minimal query interface required by query helpers.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// AssignFunc receives each row value as string and rowEnd=true for the last column.
type AssignFunc func(column, value string, rowEnd bool)

// RecordFunc receives one row keyed by lower-cased column name.
type RecordFunc func(rec Record)

// Record is a result row keyed by lower-cased column name. SQL NULL is kept distinct from "".
type Record map[string]sql.NullString

// Get returns the column value and whether it was present and not NULL.
func (r Record) Get(column string) (string, bool) {
	v, ok := r[strings.ToLower(column)]
	if !ok || !v.Valid {
		return "", false
	}
	return v.String, true
}

// Has reports whether the row has the column at all, NULL or not.
func (r Record) Has(column string) bool {
	_, ok := r[strings.ToLower(column)]
	return ok
}

// QueryRows executes query and streams row values through assign.
func QueryRows(ctx context.Context, q Queryer, query string, assign AssignFunc, args ...any) error {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	return readRows(rows, assign)
}

// QueryRecords executes query and passes every row to fn as a Record.
// Column names are lower-cased because servers disagree on their casing across versions.
func QueryRecords(ctx context.Context, q Queryer, query string, fn RecordFunc, args ...any) error {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	for i, col := range columns {
		columns[i] = strings.ToLower(col)
	}

	values := makeValues(len(columns))
	for rows.Next() {
		if err := rows.Scan(values...); err != nil {
			return err
		}
		rec := make(Record, len(columns))
		for i, col := range columns {
			rec[col] = *values[i].(*sql.NullString)
		}
		if fn != nil {
			fn(rec)
		}
	}
	return rows.Err()
}

// readRows scans all rows and invokes assign for every column value.
func readRows(rows *sql.Rows, assign AssignFunc) error {
	if assign == nil {
		return nil
	}

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	values := makeValues(len(columns))
	for rows.Next() {
		if err := rows.Scan(values...); err != nil {
			return err
		}
		for i := range values {
			assign(columns[i], valueToString(values[i]), i == len(values)-1)
		}
	}
	return rows.Err()
}

func valueToString(value any) string {
	v, ok := value.(*sql.NullString)
	if !ok || !v.Valid {
		return ""
	}
	return v.String
}

func makeValues(size int) []any {
	vs := make([]any, size)
	for i := range vs {
		vs[i] = &sql.NullString{}
	}
	return vs
}
