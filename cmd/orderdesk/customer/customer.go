// Package customer wires the customer record operations into the CLI.
package customer

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/kcmvp/orderdesk/entity"
	"github.com/spf13/cobra"
)

// CustomerCmd represents the customer command group
var CustomerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Manage customer records.",
}

var (
	id    int64
	name  string
	email string
	phone string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Insert a customer, or update one when --id is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := entity.Customer{ID: id, Name: name, Email: email, Phone: phone}
		res := c.Save(cmd.Context())
		if res.IsError() {
			return res.Error()
		}
		color.Green("customer %d saved", res.MustGet())
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all customers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		res := entity.ListCustomers(cmd.Context())
		if res.IsError() {
			return res.Error()
		}
		for _, c := range res.MustGet() {
			fmt.Printf("%-6d %-30s %-30s %s\n", c.ID, c.Name, c.Email, c.Phone)
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <partial-email>",
	Short: "Search customers by email substring.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res := entity.SearchCustomersByEmail(cmd.Context(), args[0])
		if res.IsError() {
			return res.Error()
		}
		for _, c := range res.MustGet() {
			fmt.Printf("%-6d %-30s %s\n", c.ID, c.Name, c.Email)
		}
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a customer. Orders referencing it are kept.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cid, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid customer id %q", args[0])
		}
		res := entity.DeleteCustomer(cmd.Context(), cid)
		if res.IsError() {
			return res.Error()
		}
		color.Green("customer %d removed", cid)
		return nil
	},
}

func init() {
	addCmd.Flags().Int64Var(&id, "id", 0, "existing customer id (update instead of insert)")
	addCmd.Flags().StringVar(&name, "name", "", "customer name (required)")
	addCmd.Flags().StringVar(&email, "email", "", "customer email")
	addCmd.Flags().StringVar(&phone, "phone", "", "customer phone")
	_ = addCmd.MarkFlagRequired("name")

	CustomerCmd.AddCommand(addCmd)
	CustomerCmd.AddCommand(listCmd)
	CustomerCmd.AddCommand(searchCmd)
	CustomerCmd.AddCommand(rmCmd)
}
