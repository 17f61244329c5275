package entity

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kcmvp/orderdesk/store"
	"github.com/samber/mo"
)

// Product is one row of the produtos table.
type Product struct {
	ID        int64
	Name      string
	UnitPrice float64
}

// Save inserts the product when ID is zero and updates it otherwise.
// On insert the assigned identifier is written back onto the record.
func (p *Product) Save(ctx context.Context) mo.Result[int64] {
	if strings.TrimSpace(p.Name) == "" {
		return mo.Err[int64](fmt.Errorf("product name is required"))
	}
	if p.UnitPrice < 0 {
		return mo.Err[int64](fmt.Errorf("product unit price must not be negative"))
	}
	if p.ID != 0 {
		res := store.Exec(ctx, "UPDATE produtos SET nome=?, preco_unit=? WHERE id=?",
			p.Name, p.UnitPrice, p.ID)
		if res.IsError() {
			return mo.Err[int64](res.Error())
		}
		return mo.Ok(p.ID)
	}
	res := store.ExecReturningID(ctx, "INSERT INTO produtos (nome, preco_unit) VALUES (?, ?)",
		p.Name, p.UnitPrice)
	if res.IsOk() {
		p.ID = res.MustGet()
	}
	return res
}

// ListProducts returns every product in insertion order.
func ListProducts(ctx context.Context) mo.Result[[]Product] {
	return store.Select(ctx, "SELECT id, nome, preco_unit FROM produtos", scanProduct)
}

// GetProduct returns the product with the given identifier.
func GetProduct(ctx context.Context, id int64) mo.Result[Product] {
	res := store.Select(ctx, "SELECT id, nome, preco_unit FROM produtos WHERE id=?", scanProduct, id)
	if res.IsError() {
		return mo.Err[Product](res.Error())
	}
	products := res.MustGet()
	if len(products) == 0 {
		return mo.Err[Product](fmt.Errorf("product %d not found", id))
	}
	return mo.Ok(products[0])
}

// DeleteProduct removes the product row. Existing order items keep the
// identifier; they simply vanish from joined listings.
func DeleteProduct(ctx context.Context, id int64) mo.Result[int64] {
	return store.Exec(ctx, "DELETE FROM produtos WHERE id=?", id)
}

func scanProduct(rows *sql.Rows) (Product, error) {
	var p Product
	err := rows.Scan(&p.ID, &p.Name, &p.UnitPrice)
	return p, err
}
