package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/kcmvp/orderdesk/cmd/orderdesk/customer"
	"github.com/kcmvp/orderdesk/cmd/orderdesk/imp"
	ordercmd "github.com/kcmvp/orderdesk/cmd/orderdesk/order"
	"github.com/kcmvp/orderdesk/cmd/orderdesk/product"
	reportcmd "github.com/kcmvp/orderdesk/cmd/orderdesk/report"
	"github.com/kcmvp/orderdesk/schema"
	"github.com/kcmvp/orderdesk/store"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "orderdesk",
	Short: "orderdesk manages customers, products and orders in a local SQLite store.",
	Long: `orderdesk is the command-line front of a small sales-management core:
customer, product and order records over a single-file SQLite database,
with order entry, search and dashboard aggregates.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			store.SetSQLLogger(log.New(os.Stderr, "", log.LstdFlags))
		}
		// Schema trouble must never block startup: a failed migration rolls
		// back and the store keeps whichever table generation it had.
		if err := schema.Ensure(cmd.Context()); err != nil {
			color.Yellow("schema: %v", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = store.CloseAllDataSources()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every SQL statement to stderr")
	rootCmd.AddCommand(customer.CustomerCmd)
	rootCmd.AddCommand(product.ProductCmd)
	rootCmd.AddCommand(ordercmd.OrderCmd)
	rootCmd.AddCommand(reportcmd.ReportCmd)
	rootCmd.AddCommand(imp.ImportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
