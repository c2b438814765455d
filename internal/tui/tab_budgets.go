package tui

import (
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/prorata/internal/budget"
	"github.com/theirongolddev/prorata/internal/cli"
	"github.com/theirongolddev/prorata/internal/tui/components"
	"github.com/theirongolddev/prorata/internal/tui/theme"
)

func newBudgetsTable() table.Model {
	t := theme.Active

	tbl := table.New(
		table.WithColumns([]table.Column{
			{Title: "Month", Width: 10},
			{Title: "Key", Width: 8},
			{Title: "Days", Width: 5},
			{Title: "Amount", Width: 16},
			{Title: "Per day", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Foreground(t.Accent).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(t.TextPrimary).
		Background(t.SurfaceHover).
		Bold(false)
	tbl.SetStyles(styles)
	return tbl
}

// budgetRows lists the effective budgets (duplicates collapsed) by month.
func (a App) budgetRows() []table.Row {
	keys := make([]string, 0, len(a.lookup))
	for k := range a.lookup {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]table.Row, 0, len(keys))
	for _, k := range keys {
		b := a.lookup[k]
		year, month, err := budget.ParseKey(k)
		if err != nil {
			continue
		}
		days := budget.DaysIn(year, month)
		perDay := big.NewRat(b.Amount, int64(days))
		rows = append(rows, table.Row{
			cli.FormatMonth(k),
			k,
			strconv.Itoa(days),
			cli.FormatInt(b.Amount, a.format),
			cli.FormatAmount(perDay, a.format),
		})
	}
	return rows
}

func (a App) renderBudgetsTab(cw int) string {
	t := theme.Active

	if len(a.lookup) == 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted)
		return "\n" + components.ContentCard("Budgets",
			muted.Render("No budgets in "+a.sourceKind+". Add a [budgets] table or run `prorata import`."), cw)
	}

	var total int64
	values := make([]float64, 0, len(a.lookup))
	for _, row := range a.budgetRows() {
		b := a.lookup[row[1]]
		total += b.Amount
		values = append(values, float64(b.Amount))
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Months", Value: strconv.Itoa(len(a.lookup))},
		{Label: "Total budgeted", Value: cli.FormatInt(total, a.format)},
		{Label: "Trend", Value: cli.RenderSparkline(values)},
	}, cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Monthly budgets", a.table.View(), cw))
	return b.String()
}
