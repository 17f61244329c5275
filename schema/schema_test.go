package schema

import (
	"context"
	"testing"

	"github.com/kcmvp/orderdesk/store"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func wipe(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for _, tbl := range []string{"itens_pedido", "itens_pedido_legada", "pedidos", "produtos", "clientes", "schema_version"} {
		require.False(t, store.Exec(ctx, "DROP TABLE IF EXISTS "+tbl).IsError())
	}
}

func tableColumns(t *testing.T, table string) []string {
	t.Helper()
	res := store.Query(context.Background(), "PRAGMA table_info("+table+")")
	require.True(t, res.IsOk())
	cols := make([]string, 0)
	for _, row := range res.MustGet() {
		cols = append(cols, asString(row[1]))
	}
	return cols
}

func TestEnsure_FreshDatabase(t *testing.T) {
	wipe(t)
	ctx := context.Background()

	require.NoError(t, Ensure(ctx))

	for _, tbl := range []string{"clientes", "produtos", "pedidos", "itens_pedido"} {
		require.NotEmpty(t, tableColumns(t, tbl), "table %s should exist", tbl)
	}
	require.Contains(t, tableColumns(t, "itens_pedido"), "produto_id")

	ver, err := currentVersion(ctx)
	require.NoError(t, err)
	require.EqualValues(t, Version, ver)
}

func TestEnsure_IdempotentOnNormalized(t *testing.T) {
	wipe(t)
	ctx := context.Background()

	require.NoError(t, Ensure(ctx))
	require.True(t, store.Exec(ctx,
		"INSERT INTO produtos (nome, preco_unit) VALUES (?, ?)", "Pen", 1.5).IsOk())

	// Second run must be a no-op: no error, data intact, same shape.
	require.NoError(t, Ensure(ctx))

	rows := store.Query(ctx, "SELECT COUNT(*) FROM produtos")
	require.True(t, rows.IsOk())
	require.EqualValues(t, 1, asInt64(rows.MustGet()[0][0]))
	require.Contains(t, tableColumns(t, "itens_pedido"), "produto_id")
}

func TestEnsure_MigratesLegacyItems(t *testing.T) {
	wipe(t)
	ctx := context.Background()

	// A pre-version database: legacy item shape, one matching product.
	require.True(t, store.Exec(ctx, `CREATE TABLE produtos (
		id INTEGER PRIMARY KEY AUTOINCREMENT, nome TEXT NOT NULL, preco_unit REAL NOT NULL DEFAULT 0)`).IsOk())
	widget := store.ExecReturningID(ctx,
		"INSERT INTO produtos (nome, preco_unit) VALUES (?, ?)", "Widget", 2.5)
	require.True(t, widget.IsOk())
	require.True(t, store.Exec(ctx, `CREATE TABLE itens_pedido (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		pedido_id INTEGER NOT NULL,
		produto TEXT NOT NULL,
		quantidade INTEGER NOT NULL,
		preco_unit REAL NOT NULL)`).IsOk())
	require.True(t, store.Exec(ctx,
		"INSERT INTO itens_pedido (pedido_id, produto, quantidade, preco_unit) VALUES (1, 'Widget', 3, 2.5)").IsOk())
	require.True(t, store.Exec(ctx,
		"INSERT INTO itens_pedido (pedido_id, produto, quantidade, preco_unit) VALUES (1, 'Vanished', 2, 9.9)").IsOk())

	require.NoError(t, Ensure(ctx))

	// Shape is normalized and the renamed legacy table is gone.
	require.Contains(t, tableColumns(t, "itens_pedido"), "produto_id")
	require.NotContains(t, tableColumns(t, "itens_pedido"), "produto")
	require.Empty(t, tableColumns(t, "itens_pedido_legada"))

	// The matching row was remapped, the unmatched row dropped.
	rows := store.Query(ctx, "SELECT pedido_id, produto_id, quantidade FROM itens_pedido")
	require.True(t, rows.IsOk())
	require.Len(t, rows.MustGet(), 1)
	got := rows.MustGet()[0]
	require.EqualValues(t, 1, asInt64(got[0]))
	require.Equal(t, widget.MustGet(), asInt64(got[1]))
	require.EqualValues(t, 3, asInt64(got[2]))

	ver, err := currentVersion(ctx)
	require.NoError(t, err)
	require.EqualValues(t, Version, ver)
}

func TestEnsure_DuplicateProductNameTakesLowestID(t *testing.T) {
	wipe(t)
	ctx := context.Background()

	require.True(t, store.Exec(ctx, `CREATE TABLE produtos (
		id INTEGER PRIMARY KEY AUTOINCREMENT, nome TEXT NOT NULL, preco_unit REAL NOT NULL DEFAULT 0)`).IsOk())
	first := store.ExecReturningID(ctx,
		"INSERT INTO produtos (nome, preco_unit) VALUES (?, ?)", "Widget", 1.0)
	require.True(t, first.IsOk())
	require.True(t, store.Exec(ctx,
		"INSERT INTO produtos (nome, preco_unit) VALUES (?, ?)", "Widget", 2.0).IsOk())
	require.True(t, store.Exec(ctx, `CREATE TABLE itens_pedido (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		pedido_id INTEGER NOT NULL,
		produto TEXT NOT NULL,
		quantidade INTEGER NOT NULL,
		preco_unit REAL NOT NULL)`).IsOk())
	require.True(t, store.Exec(ctx,
		"INSERT INTO itens_pedido (pedido_id, produto, quantidade, preco_unit) VALUES (7, 'Widget', 1, 1.0)").IsOk())

	require.NoError(t, Ensure(ctx))

	rows := store.Query(ctx, "SELECT produto_id FROM itens_pedido")
	require.True(t, rows.IsOk())
	require.Len(t, rows.MustGet(), 1)
	require.Equal(t, first.MustGet(), asInt64(rows.MustGet()[0][0]))
}

func TestHelpers_Coercion(t *testing.T) {
	require.EqualValues(t, 3, asInt64(int64(3)))
	require.EqualValues(t, 3, asInt64(3.0))
	require.EqualValues(t, 0, asInt64("nope"))
	require.Equal(t, "x", asString("x"))
	require.Equal(t, "x", asString([]byte("x")))
}
