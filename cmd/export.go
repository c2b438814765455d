package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/prorata/internal/budget"
	"github.com/theirongolddev/prorata/internal/sheet"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export START END",
	Short: "Write the per-month breakdown of a query to an .xlsx workbook",
	Args:  cobra.ExactArgs(2),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "output", "o", "prorata.xlsx", "Output workbook path")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	start, end, err := parseRange(args)
	if err != nil {
		return err
	}

	budgets, err := loadBudgets(cmd.Context())
	if err != nil {
		return err
	}

	months := budget.Prorate(start, end, budget.NewLookup(budgets))

	//nolint:gosec // output path is chosen by the local user
	f, err := os.Create(flagExportOut)
	if err != nil {
		return fmt.Errorf("creating %s: %w", flagExportOut, err)
	}

	werr := sheet.WriteBreakdown(f, sheet.Report{
		Start:     start,
		End:       end,
		Months:    months,
		Total:     budget.Total(months),
		Precision: cfg.Display.Precision,
	})
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("writing %s: %w", flagExportOut, werr)
	}

	if !flagQuiet {
		fmt.Printf("  Wrote %d months to %s\n", len(months), flagExportOut)
	}
	return nil
}
