package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/samber/mo"
)

// Error kinds carried by failed results. Callers that only care about
// success can treat any Err as failure; callers that need to distinguish a
// dead database from a bad statement can errors.Is against these.
var (
	// ErrConnection means no usable datasource was available.
	ErrConnection = errors.New("store: connection failure")
	// ErrStatement means the datasource rejected the statement.
	ErrStatement = errors.New("store: statement failure")
)

// Row is one result tuple of an ad-hoc query, column values in select order.
type Row []any

// Exec runs a mutating statement (INSERT/UPDATE/DELETE/DDL) on the default
// datasource and returns the number of affected rows.
//
// A failed statement is an Err result, never a panic; zero affected rows is a
// perfectly fine Ok(0). This is the typed upgrade of the usual desktop-app
// habit of collapsing every failure into `false`.
func Exec(ctx context.Context, query string, args ...any) mo.Result[int64] {
	db, ok := DefaultDS()
	if !ok {
		return mo.Err[int64](fmt.Errorf("%w: default datasource is not initialized", ErrConnection))
	}
	return ExecOn(ctx, db, query, args...)
}

// ExecOn is Exec against an explicit Conn (a transaction or a named datasource).
func ExecOn(ctx context.Context, c Conn, query string, args ...any) mo.Result[int64] {
	res, err := c.ExecContext(ctx, query, args...)
	if err != nil {
		return mo.Err[int64](fmt.Errorf("%w: %v", ErrStatement, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mo.Err[int64](fmt.Errorf("%w: %v", ErrStatement, err))
	}
	return mo.Ok(n)
}

// ExecReturningID runs an INSERT on the default datasource and returns the
// identifier assigned to the new row.
func ExecReturningID(ctx context.Context, query string, args ...any) mo.Result[int64] {
	db, ok := DefaultDS()
	if !ok {
		return mo.Err[int64](fmt.Errorf("%w: default datasource is not initialized", ErrConnection))
	}
	return ExecReturningIDOn(ctx, db, query, args...)
}

// ExecReturningIDOn is ExecReturningID against an explicit Conn.
func ExecReturningIDOn(ctx context.Context, c Conn, query string, args ...any) mo.Result[int64] {
	res, err := c.ExecContext(ctx, query, args...)
	if err != nil {
		return mo.Err[int64](fmt.Errorf("%w: %v", ErrStatement, err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return mo.Err[int64](fmt.Errorf("%w: %v", ErrStatement, err))
	}
	return mo.Ok(id)
}

// Query runs a SELECT on the default datasource and returns the raw row
// tuples. An empty result set is Ok(empty) — only an actual failure is Err,
// so "no rows matched" and "the query failed" stay distinguishable.
func Query(ctx context.Context, query string, args ...any) mo.Result[[]Row] {
	db, ok := DefaultDS()
	if !ok {
		return mo.Err[[]Row](fmt.Errorf("%w: default datasource is not initialized", ErrConnection))
	}
	return QueryOn(ctx, db, query, args...)
}

// QueryOn is Query against an explicit Conn.
func QueryOn(ctx context.Context, c Conn, query string, args ...any) mo.Result[[]Row] {
	rows, err := c.QueryContext(ctx, query, args...)
	if err != nil {
		return mo.Err[[]Row](fmt.Errorf("%w: %v", ErrStatement, err))
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return mo.Err[[]Row](fmt.Errorf("%w: %v", ErrStatement, err))
	}

	out := make([]Row, 0)
	for rows.Next() {
		vals := make(Row, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return mo.Err[[]Row](fmt.Errorf("%w: %v", ErrStatement, err))
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return mo.Err[[]Row](fmt.Errorf("%w: %v", ErrStatement, err))
	}
	return mo.Ok(out)
}

// Select runs a SELECT on the default datasource and maps every row through
// scan into a typed slice. The scan callback owns the column layout, which
// keeps NULL handling (sql.NullString and friends) next to the query that
// produced it.
func Select[T any](ctx context.Context, query string, scan func(*sql.Rows) (T, error), args ...any) mo.Result[[]T] {
	db, ok := DefaultDS()
	if !ok {
		return mo.Err[[]T](fmt.Errorf("%w: default datasource is not initialized", ErrConnection))
	}
	return SelectOn[T](ctx, db, query, scan, args...)
}

// SelectOn is Select against an explicit Conn.
func SelectOn[T any](ctx context.Context, c Conn, query string, scan func(*sql.Rows) (T, error), args ...any) mo.Result[[]T] {
	rows, err := c.QueryContext(ctx, query, args...)
	if err != nil {
		return mo.Err[[]T](fmt.Errorf("%w: %v", ErrStatement, err))
	}
	defer func() { _ = rows.Close() }()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return mo.Err[[]T](fmt.Errorf("%w: %v", ErrStatement, err))
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return mo.Err[[]T](fmt.Errorf("%w: %v", ErrStatement, err))
	}
	return mo.Ok(out)
}

// WithTx runs fn inside a single transaction on the default datasource.
// The transaction commits when fn returns nil and rolls back otherwise.
// SQLite auto-commits individual statements; multi-statement sequences such
// as the order commit (header plus items) and the legacy-table migration must
// go through here so a mid-sequence failure leaves no partial writes.
func WithTx(ctx context.Context, fn func(tx Conn) error) error {
	db, ok := DefaultDS()
	if !ok {
		return fmt.Errorf("%w: default datasource is not initialized", ErrConnection)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %v", ErrStatement, err)
	}
	return nil
}

var _ Conn = (*sql.Tx)(nil)
