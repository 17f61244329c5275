// Package order implements the order-entry workflow: a draft accumulates
// line items in memory, keeps a running total, and commits the header and all
// items to the store in one transaction.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/kcmvp/orderdesk/entity"
	"github.com/kcmvp/orderdesk/store"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// PendingItem is one uncommitted line of a draft. Name and UnitPrice are
// frozen from the catalog when the item is added; later catalog edits do not
// touch pending (or committed) items.
type PendingItem struct {
	ProductID int64
	Name      string
	UnitPrice float64
	Quantity  int64
}

// Subtotal is quantity times the frozen unit price.
func (i PendingItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

// Draft is a single order-entry session. Nothing is persisted until Commit;
// Cancel discards the pending items with no storage effect. A Draft is not
// safe for concurrent use, matching the single-session UI it backs.
type Draft struct {
	CustomerID int64
	Date       string
	items      []PendingItem
	committed  bool
}

// NewDraft starts an order-entry session for the given customer and date.
func NewDraft(customerID int64, date string) *Draft {
	return &Draft{CustomerID: customerID, Date: date}
}

// AddItem looks the product up in the catalog, freezes its current price into
// a pending line and recomputes the running total. The quantity must be
// positive and the product must exist.
func (d *Draft) AddItem(ctx context.Context, productID int64, quantity int64) error {
	if d.committed {
		return fmt.Errorf("order draft is already committed")
	}
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	res := entity.GetProduct(ctx, productID)
	if res.IsError() {
		return res.Error()
	}
	p := res.MustGet()
	d.items = append(d.items, PendingItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.UnitPrice,
		Quantity:  quantity,
	})
	return nil
}

// Items returns a copy of the pending lines in insertion order.
func (d *Draft) Items() []PendingItem {
	return append([]PendingItem{}, d.items...)
}

// Total is the sum of the pending lines' subtotals.
func (d *Draft) Total() float64 {
	return lo.SumBy(d.items, PendingItem.Subtotal)
}

// Cancel discards the pending items. The draft can be reused afterwards.
func (d *Draft) Cancel() {
	d.items = nil
}

// Commit writes the order header with the accumulated total and then every
// pending item, all inside one transaction, and returns the new order's
// identifier. A failure anywhere rolls the whole order back — no header
// without its items ever reaches the store. Requires a customer, at least
// one pending item and a parseable YYYY-MM-DD date.
func (d *Draft) Commit(ctx context.Context) mo.Result[int64] {
	if d.committed {
		return mo.Err[int64](fmt.Errorf("order draft is already committed"))
	}
	if d.CustomerID == 0 {
		return mo.Err[int64](fmt.Errorf("order requires a customer"))
	}
	if _, err := time.Parse(entity.DateLayout, d.Date); err != nil {
		return mo.Err[int64](fmt.Errorf("order date must be YYYY-MM-DD: %q", d.Date))
	}
	if len(d.items) == 0 {
		return mo.Err[int64](fmt.Errorf("order requires at least one item"))
	}

	var orderID int64
	err := store.WithTx(ctx, func(tx store.Conn) error {
		header := store.ExecReturningIDOn(ctx, tx,
			"INSERT INTO pedidos (id_cliente, data, total) VALUES (?, ?, ?)",
			d.CustomerID, d.Date, d.Total())
		if header.IsError() {
			return header.Error()
		}
		orderID = header.MustGet()
		for _, it := range d.items {
			ins := store.ExecOn(ctx, tx,
				"INSERT INTO itens_pedido (pedido_id, produto_id, quantidade) VALUES (?, ?, ?)",
				orderID, it.ProductID, it.Quantity)
			if ins.IsError() {
				return ins.Error()
			}
		}
		return nil
	})
	if err != nil {
		return mo.Err[int64](err)
	}
	d.committed = true
	return mo.Ok(orderID)
}
