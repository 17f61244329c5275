package entity

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kcmvp/orderdesk/store"
	"github.com/samber/mo"
)

// DateLayout is the stored order date format.
const DateLayout = "2006-01-02"

// Order is one row of the pedidos table — the order header only, without its
// line items. Total is whatever the caller supplied at save time; the store
// never recomputes it, so later product price edits do not touch it.
type Order struct {
	ID         int64
	CustomerID int64
	Date       string
	Total      float64
}

// Save inserts the order when ID is zero and updates it otherwise.
// On insert the assigned identifier is written back onto the record.
// The referenced customer is not required to exist.
func (o *Order) Save(ctx context.Context) mo.Result[int64] {
	if o.CustomerID == 0 {
		return mo.Err[int64](fmt.Errorf("order requires a customer"))
	}
	if _, err := time.Parse(DateLayout, o.Date); err != nil {
		return mo.Err[int64](fmt.Errorf("order date must be YYYY-MM-DD: %q", o.Date))
	}
	if o.ID != 0 {
		res := store.Exec(ctx, "UPDATE pedidos SET id_cliente=?, data=?, total=? WHERE id=?",
			o.CustomerID, o.Date, o.Total, o.ID)
		if res.IsError() {
			return mo.Err[int64](res.Error())
		}
		return mo.Ok(o.ID)
	}
	res := store.ExecReturningID(ctx, "INSERT INTO pedidos (id_cliente, data, total) VALUES (?, ?, ?)",
		o.CustomerID, o.Date, o.Total)
	if res.IsOk() {
		o.ID = res.MustGet()
	}
	return res
}

// ListOrders returns every order header in insertion order.
func ListOrders(ctx context.Context) mo.Result[[]Order] {
	return store.Select(ctx, "SELECT id, id_cliente, data, total FROM pedidos", scanOrder)
}

// DeleteOrder removes the order header. Its items are left behind; they
// become unreachable through joined listings once the header is gone.
func DeleteOrder(ctx context.Context, id int64) mo.Result[int64] {
	return store.Exec(ctx, "DELETE FROM pedidos WHERE id=?", id)
}

func scanOrder(rows *sql.Rows) (Order, error) {
	var o Order
	err := rows.Scan(&o.ID, &o.CustomerID, &o.Date, &o.Total)
	return o, err
}
