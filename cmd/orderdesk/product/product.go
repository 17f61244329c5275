// Package product wires the product catalog operations into the CLI.
package product

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/kcmvp/orderdesk/entity"
	"github.com/spf13/cobra"
)

// ProductCmd represents the product command group
var ProductCmd = &cobra.Command{
	Use:   "product",
	Short: "Manage the product catalog.",
}

var (
	id    int64
	name  string
	price float64
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Insert a product, or update one when --id is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := entity.Product{ID: id, Name: name, UnitPrice: price}
		res := p.Save(cmd.Context())
		if res.IsError() {
			return res.Error()
		}
		color.Green("product %d saved", res.MustGet())
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalog.",
	RunE: func(cmd *cobra.Command, args []string) error {
		res := entity.ListProducts(cmd.Context())
		if res.IsError() {
			return res.Error()
		}
		for _, p := range res.MustGet() {
			fmt.Printf("%-6d %-30s %10.2f\n", p.ID, p.Name, p.UnitPrice)
		}
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a product. Order items referencing it keep the id but drop out of joined listings.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		res := entity.DeleteProduct(cmd.Context(), pid)
		if res.IsError() {
			return res.Error()
		}
		color.Green("product %d removed", pid)
		return nil
	},
}

func init() {
	addCmd.Flags().Int64Var(&id, "id", 0, "existing product id (update instead of insert)")
	addCmd.Flags().StringVar(&name, "name", "", "product name (required)")
	addCmd.Flags().Float64Var(&price, "price", 0, "unit price")
	_ = addCmd.MarkFlagRequired("name")

	ProductCmd.AddCommand(addCmd)
	ProductCmd.AddCommand(listCmd)
	ProductCmd.AddCommand(rmCmd)
}
