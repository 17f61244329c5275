package order

import (
	"context"
	"strings"

	"github.com/kcmvp/orderdesk/entity"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/tidwall/match"
)

// Summary is an order header resolved against the customer list for display.
// A dangling customer reference shows up with an empty name, it does not hide
// the order.
type Summary struct {
	entity.Order
	CustomerName string
}

// FindByCustomer returns the orders whose customer name matches the given
// pattern, case-insensitively. The pattern supports `*` and `?` wildcards; a
// plain term matches as a substring. Filtering happens client-side over the
// full listing, the way the original search box behaved.
func FindByCustomer(ctx context.Context, pattern string) mo.Result[[]Summary] {
	orders := entity.ListOrders(ctx)
	if orders.IsError() {
		return mo.Err[[]Summary](orders.Error())
	}
	customers := entity.ListCustomers(ctx)
	if customers.IsError() {
		return mo.Err[[]Summary](customers.Error())
	}
	names := lo.SliceToMap(customers.MustGet(), func(c entity.Customer) (int64, string) {
		return c.ID, c.Name
	})

	pat := strings.ToLower(pattern)
	if !strings.ContainsAny(pat, "*?") {
		pat = "*" + pat + "*"
	}

	summaries := lo.Map(orders.MustGet(), func(o entity.Order, _ int) Summary {
		return Summary{Order: o, CustomerName: names[o.CustomerID]}
	})
	return mo.Ok(lo.Filter(summaries, func(s Summary, _ int) bool {
		return match.Match(strings.ToLower(s.CustomerName), pat)
	}))
}
