package entity

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kcmvp/orderdesk/store"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// OrderItem is one row of the itens_pedido table: a product reference plus a
// quantity, belonging to an order.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int64
}

// OrderItemDetail is an OrderItem joined with its product's name and current
// unit price, as returned by OrderItemsByOrder.
type OrderItemDetail struct {
	ID          int64
	ProductID   int64
	ProductName string
	UnitPrice   float64
	Quantity    int64
}

// Subtotal is quantity times the product's current unit price.
func (d OrderItemDetail) Subtotal() float64 {
	return float64(d.Quantity) * d.UnitPrice
}

// Save inserts the item when ID is zero and updates it otherwise.
// On insert the assigned identifier is written back onto the record.
func (i *OrderItem) Save(ctx context.Context) mo.Result[int64] {
	if i.OrderID == 0 || i.ProductID == 0 {
		return mo.Err[int64](fmt.Errorf("order item requires an order and a product"))
	}
	if i.Quantity <= 0 {
		return mo.Err[int64](fmt.Errorf("order item quantity must be positive"))
	}
	if i.ID != 0 {
		res := store.Exec(ctx, "UPDATE itens_pedido SET pedido_id=?, produto_id=?, quantidade=? WHERE id=?",
			i.OrderID, i.ProductID, i.Quantity, i.ID)
		if res.IsError() {
			return mo.Err[int64](res.Error())
		}
		return mo.Ok(i.ID)
	}
	res := store.ExecReturningID(ctx, "INSERT INTO itens_pedido (pedido_id, produto_id, quantidade) VALUES (?, ?, ?)",
		i.OrderID, i.ProductID, i.Quantity)
	if res.IsOk() {
		i.ID = res.MustGet()
	}
	return res
}

// OrderItemsByOrder lists the items of one order joined with produtos.
// The join is inner: an item whose product was deleted is silently absent.
func OrderItemsByOrder(ctx context.Context, orderID int64) mo.Result[[]OrderItemDetail] {
	return store.Select(ctx,
		`SELECT ip.id, ip.produto_id, p.nome, p.preco_unit, ip.quantidade
		 FROM itens_pedido ip JOIN produtos p ON ip.produto_id = p.id
		 WHERE ip.pedido_id = ?`,
		scanOrderItemDetail, orderID)
}

// OrderItemsTotal sums the subtotals of joined items. Since the join carries
// current catalog prices, this can drift from the order's stored total after
// a product price edit — both values are intentionally kept.
func OrderItemsTotal(items []OrderItemDetail) float64 {
	return lo.SumBy(items, OrderItemDetail.Subtotal)
}

// DeleteOrderItem removes the item row.
func DeleteOrderItem(ctx context.Context, id int64) mo.Result[int64] {
	return store.Exec(ctx, "DELETE FROM itens_pedido WHERE id=?", id)
}

func scanOrderItemDetail(rows *sql.Rows) (OrderItemDetail, error) {
	var d OrderItemDetail
	err := rows.Scan(&d.ID, &d.ProductID, &d.ProductName, &d.UnitPrice, &d.Quantity)
	return d, err
}
