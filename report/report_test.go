package report

import (
	"context"
	"os"
	"testing"

	"github.com/kcmvp/orderdesk/entity"
	"github.com/kcmvp/orderdesk/schema"
	"github.com/kcmvp/orderdesk/store"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := schema.Ensure(context.Background()); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func wipe(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for _, tbl := range []string{"itens_pedido", "pedidos", "produtos", "clientes"} {
		require.True(t, store.Exec(ctx, "DELETE FROM "+tbl).IsOk())
	}
}

func TestReport_EmptyDatabase(t *testing.T) {
	wipe(t)
	ctx := context.Background()

	count := CustomerCount(ctx)
	require.True(t, count.IsOk())
	require.EqualValues(t, 0, count.MustGet())

	orders := OrdersInMonth(ctx, "2024-01")
	require.True(t, orders.IsOk())
	require.EqualValues(t, 0, orders.MustGet())

	// AVG over no rows is NULL; the report turns that into 0.
	ticket := AverageTicket(ctx, "2024-01")
	require.True(t, ticket.IsOk())
	require.InDelta(t, 0, ticket.MustGet(), 1e-9)
}

func TestReport_MonthAggregates(t *testing.T) {
	wipe(t)
	ctx := context.Background()

	c := entity.Customer{Name: "Ana"}
	require.True(t, c.Save(ctx).IsOk())

	for _, o := range []entity.Order{
		{CustomerID: c.ID, Date: "2024-01-10", Total: 10},
		{CustomerID: c.ID, Date: "2024-01-20", Total: 30},
		{CustomerID: c.ID, Date: "2024-02-01", Total: 99},
	} {
		require.True(t, o.Save(ctx).IsOk())
	}

	count := CustomerCount(ctx)
	require.True(t, count.IsOk())
	require.EqualValues(t, 1, count.MustGet())

	orders := OrdersInMonth(ctx, "2024-01")
	require.True(t, orders.IsOk())
	require.EqualValues(t, 2, orders.MustGet())

	ticket := AverageTicket(ctx, "2024-01")
	require.True(t, ticket.IsOk())
	require.InDelta(t, 20.0, ticket.MustGet(), 1e-9)
}
