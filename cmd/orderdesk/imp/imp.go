// Package imp bulk-loads customers and products from a JSON file.
package imp

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/kcmvp/orderdesk/entity"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

// ImportCmd represents the import command
var ImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import customers and products from a JSON file.",
	Long: `Import reads a JSON document of the shape

  {
    "customers": [{"name": "...", "email": "...", "phone": "..."}],
    "products":  [{"name": "...", "price": 1.50}]
  }

and inserts every entry. Records failing validation are reported and skipped;
the rest of the file still loads.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		if !gjson.ValidBytes(data) {
			return fmt.Errorf("%s is not valid JSON", args[0])
		}

		var loaded, skipped int
		for _, rec := range gjson.GetBytes(data, "customers").Array() {
			c := entity.Customer{
				Name:  rec.Get("name").String(),
				Email: rec.Get("email").String(),
				Phone: rec.Get("phone").String(),
			}
			if res := c.Save(cmd.Context()); res.IsError() {
				color.Yellow("skipping customer %s: %v", rec.Raw, res.Error())
				skipped++
				continue
			}
			loaded++
		}
		for _, rec := range gjson.GetBytes(data, "products").Array() {
			p := entity.Product{
				Name:      rec.Get("name").String(),
				UnitPrice: rec.Get("price").Float(),
			}
			if res := p.Save(cmd.Context()); res.IsError() {
				color.Yellow("skipping product %s: %v", rec.Raw, res.Error())
				skipped++
				continue
			}
			loaded++
		}

		color.Green("imported %d record(s), skipped %d", loaded, skipped)
		return nil
	},
}
