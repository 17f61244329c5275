// Package entity holds the persistent records of the application — customers,
// products, orders and their line items — together with their data-access
// operations. Every fallible operation returns a mo.Result so callers can
// tell an empty listing apart from a failed query.
package entity

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kcmvp/orderdesk/store"
	"github.com/samber/mo"
)

// Customer is one row of the clientes table. Email and Phone are optional;
// nothing enforces email uniqueness.
type Customer struct {
	ID    int64
	Name  string
	Email string
	Phone string
}

// Save inserts the customer when ID is zero and updates every mutable field
// otherwise. On insert the assigned identifier is written back onto the
// record and returned.
func (c *Customer) Save(ctx context.Context) mo.Result[int64] {
	if strings.TrimSpace(c.Name) == "" {
		return mo.Err[int64](fmt.Errorf("customer name is required"))
	}
	if c.ID != 0 {
		res := store.Exec(ctx, "UPDATE clientes SET nome=?, email=?, telefone=? WHERE id=?",
			c.Name, c.Email, c.Phone, c.ID)
		if res.IsError() {
			return mo.Err[int64](res.Error())
		}
		return mo.Ok(c.ID)
	}
	res := store.ExecReturningID(ctx, "INSERT INTO clientes (nome, email, telefone) VALUES (?, ?, ?)",
		c.Name, c.Email, c.Phone)
	if res.IsOk() {
		c.ID = res.MustGet()
	}
	return res
}

// ListCustomers returns every customer in insertion order.
func ListCustomers(ctx context.Context) mo.Result[[]Customer] {
	return store.Select(ctx, "SELECT id, nome, email, telefone FROM clientes", scanCustomer)
}

// SearchCustomersByEmail returns the customers whose email contains the given
// substring. Case sensitivity follows SQLite's default LIKE collation.
func SearchCustomersByEmail(ctx context.Context, partial string) mo.Result[[]Customer] {
	return store.Select(ctx, "SELECT id, nome, email, telefone FROM clientes WHERE email LIKE ?",
		scanCustomer, "%"+partial+"%")
}

// DeleteCustomer removes the customer row. Orders referencing it are left
// alone; the dangling reference is accepted behavior.
func DeleteCustomer(ctx context.Context, id int64) mo.Result[int64] {
	return store.Exec(ctx, "DELETE FROM clientes WHERE id=?", id)
}

func scanCustomer(rows *sql.Rows) (Customer, error) {
	var c Customer
	var email, phone sql.NullString
	err := rows.Scan(&c.ID, &c.Name, &email, &phone)
	c.Email, c.Phone = email.String, phone.String
	return c, err
}
