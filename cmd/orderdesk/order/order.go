// Package order wires the order-entry workflow and order listings into the CLI.
package order

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/kcmvp/orderdesk/entity"
	"github.com/kcmvp/orderdesk/order"
	"github.com/spf13/cobra"
)

// OrderCmd represents the order command group
var OrderCmd = &cobra.Command{
	Use:   "order",
	Short: "Create, list and inspect orders.",
}

var (
	customerID int64
	date       string
	items      []string
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create an order from --item product:quantity lines.",
	Long: `Create an order for a customer. Each --item flag adds one line, e.g.

  orderdesk order new --customer 3 --date 2024-01-10 --item 1:4 --item 2:1

Unit prices are read from the catalog when the line is added and the whole
order is written in a single transaction.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		draft := order.NewDraft(customerID, date)
		for _, line := range items {
			productID, qty, err := parseItem(line)
			if err != nil {
				return err
			}
			if err := draft.AddItem(cmd.Context(), productID, qty); err != nil {
				return err
			}
		}
		res := draft.Commit(cmd.Context())
		if res.IsError() {
			return res.Error()
		}
		color.Green("order %d created, total %.2f", res.MustGet(), draft.Total())
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all order headers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		res := entity.ListOrders(cmd.Context())
		if res.IsError() {
			return res.Error()
		}
		for _, o := range res.MustGet() {
			fmt.Printf("%-6d customer=%-6d %s %10.2f\n", o.ID, o.CustomerID, o.Date, o.Total)
		}
		return nil
	},
}

var itemsCmd = &cobra.Command{
	Use:   "items <order-id>",
	Short: "List one order's items joined with the catalog.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		oid, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[0])
		}
		res := entity.OrderItemsByOrder(cmd.Context(), oid)
		if res.IsError() {
			return res.Error()
		}
		details := res.MustGet()
		for _, d := range details {
			fmt.Printf("%-6d %-30s x%-5d %10.2f %10.2f\n",
				d.ID, d.ProductName, d.Quantity, d.UnitPrice, d.Subtotal())
		}
		fmt.Printf("%54s %10.2f\n", "total", entity.OrderItemsTotal(details))
		return nil
	},
}

var findCmd = &cobra.Command{
	Use:   "find <customer-pattern>",
	Short: "Find orders by customer name; supports * and ? wildcards.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res := order.FindByCustomer(cmd.Context(), args[0])
		if res.IsError() {
			return res.Error()
		}
		for _, s := range res.MustGet() {
			fmt.Printf("%-6d %-30s %s %10.2f\n", s.ID, s.CustomerName, s.Date, s.Total)
		}
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an order header.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		oid, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[0])
		}
		res := entity.DeleteOrder(cmd.Context(), oid)
		if res.IsError() {
			return res.Error()
		}
		color.Green("order %d removed", oid)
		return nil
	},
}

// parseItem splits a "productID:quantity" flag value.
func parseItem(line string) (int64, int64, error) {
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("item must be product:quantity, got %q", line)
	}
	productID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid product id in %q", line)
	}
	qty, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid quantity in %q", line)
	}
	return productID, qty, nil
}

func init() {
	newCmd.Flags().Int64Var(&customerID, "customer", 0, "customer id (required)")
	newCmd.Flags().StringVar(&date, "date", time.Now().Format(entity.DateLayout), "order date (YYYY-MM-DD)")
	newCmd.Flags().StringArrayVar(&items, "item", nil, "order line as product:quantity (repeatable)")
	_ = newCmd.MarkFlagRequired("customer")

	OrderCmd.AddCommand(newCmd)
	OrderCmd.AddCommand(listCmd)
	OrderCmd.AddCommand(itemsCmd)
	OrderCmd.AddCommand(findCmd)
	OrderCmd.AddCommand(rmCmd)
}
