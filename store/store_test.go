package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// resetRegistry drops every registered datasource so the next call re-reads
// application_test.yml. Earlier tests in this package close the registry.
func resetRegistry(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	initErr = nil
	dsMu.Lock()
	dsRegistry = map[string]DB{}
	defaultDS = nil
	dsMu.Unlock()
}

func setupTable(t *testing.T, ctx context.Context) {
	t.Helper()
	resetRegistry(t)
	require.False(t, Exec(ctx, "DROP TABLE IF EXISTS t").IsError())
	require.False(t, Exec(ctx, "CREATE TABLE t (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL)").IsError())
}

func TestExecReturningID_AssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	setupTable(t, ctx)

	first := ExecReturningID(ctx, "INSERT INTO t (name) VALUES (?)", "a")
	require.True(t, first.IsOk())
	second := ExecReturningID(ctx, "INSERT INTO t (name) VALUES (?)", "b")
	require.True(t, second.IsOk())
	require.Equal(t, first.MustGet()+1, second.MustGet())
}

func TestQuery_EmptyIsOkFailureIsErr(t *testing.T) {
	ctx := context.Background()
	setupTable(t, ctx)

	// No rows matched is Ok(empty), not a failure.
	empty := Query(ctx, "SELECT id, name FROM t WHERE name = ?", "nobody")
	require.True(t, empty.IsOk())
	require.Empty(t, empty.MustGet())

	// A broken statement is an Err carrying the statement kind.
	broken := Query(ctx, "SELECT id FROM no_such_table")
	require.True(t, broken.IsError())
	require.True(t, errors.Is(broken.Error(), ErrStatement))
}

func TestExec_StatementFailure(t *testing.T) {
	ctx := context.Background()
	setupTable(t, ctx)

	res := Exec(ctx, "INSERT INTO t (name) VALUES (NULL)")
	require.True(t, res.IsError())
	require.True(t, errors.Is(res.Error(), ErrStatement))
}

func TestSelect_ScansTypedRows(t *testing.T) {
	ctx := context.Background()
	setupTable(t, ctx)

	for _, name := range []string{"a", "b", "c"} {
		require.True(t, Exec(ctx, "INSERT INTO t (name) VALUES (?)", name).IsOk())
	}

	type row struct {
		id   int64
		name string
	}
	res := Select(ctx, "SELECT id, name FROM t ORDER BY id", func(rows *sql.Rows) (row, error) {
		var r row
		err := rows.Scan(&r.id, &r.name)
		return r, err
	})
	require.True(t, res.IsOk())
	got := res.MustGet()
	require.Len(t, got, 3)
	require.Equal(t, "a", got[0].name)
	require.Equal(t, "c", got[2].name)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	setupTable(t, ctx)

	err := WithTx(ctx, func(tx Conn) error {
		if res := ExecOn(ctx, tx, "INSERT INTO t (name) VALUES (?)", "kept?"); res.IsError() {
			return res.Error()
		}
		return fmt.Errorf("boom")
	})
	require.Error(t, err)

	rows := Query(ctx, "SELECT id FROM t")
	require.True(t, rows.IsOk())
	require.Empty(t, rows.MustGet())
}

func TestWithTx_CommitsOnNil(t *testing.T) {
	ctx := context.Background()
	setupTable(t, ctx)

	err := WithTx(ctx, func(tx Conn) error {
		return ExecOn(ctx, tx, "INSERT INTO t (name) VALUES (?)", "kept").Error()
	})
	require.NoError(t, err)

	rows := Query(ctx, "SELECT name FROM t")
	require.True(t, rows.IsOk())
	require.Len(t, rows.MustGet(), 1)
}
