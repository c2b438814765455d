package cmd

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/prorata/internal/budget"
	"github.com/theirongolddev/prorata/internal/cli"
)

var (
	flagBreakdown bool
	flagJSON      bool
)

var queryCmd = &cobra.Command{
	Use:   "query START END",
	Short: "Prorated budget between two dates (inclusive, YYYY-MM-DD)",
	Example: "  prorata query 2020-04-29 2020-05-02\n" +
		"  prorata query 2020-01-01 2020-12-31 --breakdown",
	Args: cobra.ExactArgs(2),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().BoolVarP(&flagBreakdown, "breakdown", "b", false, "Show the per-month contributions")
	queryCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(queryCmd)
}

type queryOutput struct {
	Start  string        `json:"start"`
	End    string        `json:"end"`
	Total  string        `json:"total"`
	Exact  string        `json:"exact"`
	Months []monthOutput `json:"months,omitempty"`
}

type monthOutput struct {
	YearMonth   string `json:"year_month"`
	Days        int    `json:"days"`
	DaysInMonth int    `json:"days_in_month"`
	Budget      int64  `json:"budget"`
	Amount      string `json:"amount"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	start, end, err := parseRange(args)
	if err != nil {
		return err
	}

	budgets, err := loadBudgets(cmd.Context())
	if err != nil {
		return err
	}

	months := budget.Prorate(start, end, budget.NewLookup(budgets))
	total := budget.Total(months)

	if flagJSON {
		return printQueryJSON(start, end, months, total)
	}

	f := amountFormat()
	if start.After(end) && !flagQuiet {
		fmt.Fprintln(os.Stderr, cli.RenderWarning("start is after end; the range is empty"))
	}

	if !flagBreakdown {
		fmt.Println(cli.FormatAmount(total, f))
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("Budget  %s → %s", start.Format(budget.DateLayout), end.Format(budget.DateLayout))))
	fmt.Println()

	rows := make([][]string, 0, len(months)+2)
	var maxAmt float64
	for _, c := range months {
		rows = append(rows, []string{
			cli.FormatMonth(c.YearMonth),
			cli.FormatDays(c.Days, c.DaysInMonth),
			cli.FormatInt(c.Budget, f),
			cli.FormatAmount(c.Amount, f),
			cli.FormatPercent(cli.Share(c.Amount, total)),
		})
		if v, _ := c.Amount.Float64(); v > maxAmt {
			maxAmt = v
		}
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"Total", "", "", cli.FormatAmount(total, f), ""})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Days", "Budget", "Amount", "Share"},
		Rows:    rows,
	}))

	if len(months) > 1 {
		fmt.Println()
		for _, c := range months {
			v, _ := c.Amount.Float64()
			fmt.Println(cli.RenderHorizontalBar(c.YearMonth, v, maxAmt, 30))
		}
	}
	fmt.Println()
	return nil
}

func printQueryJSON(start, end time.Time, months []budget.Contribution, total *big.Rat) error {
	p := cfg.Display.Precision
	out := queryOutput{
		Start: start.Format(budget.DateLayout),
		End:   end.Format(budget.DateLayout),
		Total: budget.Decimal(total, p).StringFixed(p),
		Exact: total.RatString(),
	}
	if flagBreakdown {
		for _, c := range months {
			out.Months = append(out.Months, monthOutput{
				YearMonth:   c.YearMonth,
				Days:        c.Days,
				DaysInMonth: c.DaysInMonth,
				Budget:      c.Budget,
				Amount:      budget.Decimal(c.Amount, p).StringFixed(p),
			})
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
