// Package report computes the dashboard aggregates: customer count, orders in
// a month and that month's average ticket.
package report

import (
	"context"

	"github.com/kcmvp/orderdesk/store"
	"github.com/samber/mo"
)

// CustomerCount returns the total number of customers.
func CustomerCount(ctx context.Context) mo.Result[int64] {
	return scalar(ctx, "SELECT COUNT(*) FROM clientes")
}

// OrdersInMonth returns the number of orders whose date falls in the given
// month, expressed as YYYY-MM.
func OrdersInMonth(ctx context.Context, month string) mo.Result[int64] {
	return scalar(ctx, "SELECT COUNT(*) FROM pedidos WHERE substr(data,1,7)=?", month)
}

// AverageTicket returns the average stored order total for the given month
// (YYYY-MM), or 0 when the month has no orders.
func AverageTicket(ctx context.Context, month string) mo.Result[float64] {
	res := store.Query(ctx, "SELECT AVG(total) FROM pedidos WHERE substr(data,1,7)=?", month)
	if res.IsError() {
		return mo.Err[float64](res.Error())
	}
	rows := res.MustGet()
	if len(rows) == 0 || rows[0][0] == nil {
		return mo.Ok(0.0)
	}
	avg, _ := rows[0][0].(float64)
	return mo.Ok(avg)
}

func scalar(ctx context.Context, query string, args ...any) mo.Result[int64] {
	res := store.Query(ctx, query, args...)
	if res.IsError() {
		return mo.Err[int64](res.Error())
	}
	rows := res.MustGet()
	if len(rows) == 0 || rows[0][0] == nil {
		return mo.Ok(int64(0))
	}
	n, _ := rows[0][0].(int64)
	return mo.Ok(n)
}
