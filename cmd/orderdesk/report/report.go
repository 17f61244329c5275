// Package report wires the dashboard aggregates into the CLI.
package report

import (
	"fmt"
	"time"

	"github.com/kcmvp/orderdesk/report"
	"github.com/spf13/cobra"
)

var month string

// ReportCmd represents the report command
var ReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show customer count, order count and average ticket for a month.",
	RunE: func(cmd *cobra.Command, args []string) error {
		customers := report.CustomerCount(cmd.Context())
		if customers.IsError() {
			return customers.Error()
		}
		orders := report.OrdersInMonth(cmd.Context(), month)
		if orders.IsError() {
			return orders.Error()
		}
		ticket := report.AverageTicket(cmd.Context(), month)
		if ticket.IsError() {
			return ticket.Error()
		}
		fmt.Printf("customers:        %d\n", customers.MustGet())
		fmt.Printf("orders in %s: %d\n", month, orders.MustGet())
		fmt.Printf("average ticket:   %.2f\n", ticket.MustGet())
		return nil
	},
}

func init() {
	ReportCmd.Flags().StringVar(&month, "month", time.Now().Format("2006-01"), "month as YYYY-MM")
}
