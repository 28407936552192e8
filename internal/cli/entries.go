package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pawanraocse/gst-sense/internal/api"
	"github.com/pawanraocse/gst-sense/internal/cli/output"
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Work with GST ledger entries",
}

var entriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ledger entries",
	Long: `List GST ledger entries for the current tenant.

Examples:
  gstsense entries list
  gstsense entries list --page 2 --size 50
  gstsense entries list --sort invoiceDate,desc --json`,
	RunE: runEntriesList,
}

func init() {
	rootCmd.AddCommand(entriesCmd)
	entriesCmd.AddCommand(entriesListCmd)

	entriesListCmd.Flags().Int("page", 0, "page number")
	entriesListCmd.Flags().Int("size", 20, "page size")
	entriesListCmd.Flags().StringSlice("sort", nil, "sort order, e.g. invoiceDate,desc")
	entriesListCmd.Flags().Bool("json", false, "output as JSON")
}

func runEntriesList(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	page, _ := cmd.Flags().GetInt("page")
	size, _ := cmd.Flags().GetInt("size")
	sort, _ := cmd.Flags().GetStringSlice("sort")

	result, err := app.api.Entries().List(cmd.Context(), api.PageRequest{
		Page: page,
		Size: size,
		Sort: sort,
	})
	if err != nil {
		return describeAPIError(err)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	table := output.NewTable([]string{"INVOICE", "SUPPLIER GSTIN", "DATE", "TAXABLE", "TAX", "PAYMENT", "FLAGGED"})
	for _, e := range result.Content {
		flagged := ""
		if e.ReversalFlagged {
			flagged = "yes"
		}
		table.AddRow([]string{
			e.InvoiceNumber,
			e.SupplierGSTIN,
			e.InvoiceDate.Format("2006-01-02"),
			fmt.Sprintf("%.2f", e.TaxableValue),
			fmt.Sprintf("%.2f", e.TaxAmount),
			e.PaymentStatus,
			flagged,
		})
	}
	table.Render()

	printer.Info("page %d of %d (%d entries total)", result.Number+1, result.TotalPages, result.TotalElements)
	return nil
}
