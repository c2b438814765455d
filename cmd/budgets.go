package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/prorata/internal/budget"
	"github.com/theirongolddev/prorata/internal/cli"
)

var budgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "List the monthly budgets of the active source",
	Args:  cobra.NoArgs,
	RunE:  runBudgets,
}

func init() {
	rootCmd.AddCommand(budgetsCmd)
}

func runBudgets(cmd *cobra.Command, _ []string) error {
	budgets, err := loadBudgets(cmd.Context())
	if err != nil {
		return err
	}

	if len(budgets) == 0 {
		fmt.Println("\n  No budgets found.")
		fmt.Println("  Add a [budgets] table to the config, or run `prorata import FILE`.")
		fmt.Println()
		return nil
	}

	f := amountFormat()
	lookup := budget.NewLookup(budgets)

	// Listing order, duplicates collapsed to the effective entry.
	seen := make(map[string]bool, len(budgets))
	rows := make([][]string, 0, len(lookup))
	values := make([]float64, 0, len(lookup))
	var total int64
	for _, b := range budgets {
		if seen[b.YearMonth] {
			continue
		}
		seen[b.YearMonth] = true
		eff := lookup[b.YearMonth]

		year, month, _ := budget.ParseKey(eff.YearMonth)
		rows = append(rows, []string{
			eff.YearMonth,
			cli.FormatMonth(eff.YearMonth),
			strconv.Itoa(budget.DaysIn(year, month)),
			cli.FormatInt(eff.Amount, f),
		})
		values = append(values, float64(eff.Amount))
		total += eff.Amount
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("Monthly budgets  (%s)", cfg.General.Source)))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Key", "Month", "Days", "Amount"},
		Rows:    append(rows, []string{"---"}, []string{"Total", "", "", cli.FormatInt(total, f)}),
	}))
	fmt.Println()
	fmt.Printf("  Trend  %s\n\n", cli.RenderSparkline(values))
	return nil
}
