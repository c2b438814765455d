package tui

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/prorata/internal/budget"
	"github.com/theirongolddev/prorata/internal/cli"
	"github.com/theirongolddev/prorata/internal/tui/components"
	"github.com/theirongolddev/prorata/internal/tui/theme"
)

// queryState holds the Query tab's inputs and last result.
type queryState struct {
	inputs  []textinput.Model // start, end
	focused int
	result  *queryResult
	err     error
}

type queryResult struct {
	start, end time.Time
	months     []budget.Contribution
	total      *big.Rat
}

func newQueryState() queryState {
	mk := func(label string) textinput.Model {
		ti := textinput.New()
		ti.Prompt = label
		ti.Placeholder = budget.DateLayout
		ti.CharLimit = len(budget.DateLayout)
		ti.Width = len(budget.DateLayout) + 1
		return ti
	}
	return queryState{
		inputs: []textinput.Model{mk("Start  "), mk("End    ")},
	}
}

func (q queryState) editing() bool {
	for _, in := range q.inputs {
		if in.Focused() {
			return true
		}
	}
	return false
}

// focus moves keyboard focus to input i.
func (q *queryState) focus(i int) tea.Cmd {
	q.focused = i
	var cmd tea.Cmd
	for j := range q.inputs {
		if j == i {
			cmd = q.inputs[j].Focus()
		} else {
			q.inputs[j].Blur()
		}
	}
	return cmd
}

func (q *queryState) blur() {
	for j := range q.inputs {
		q.inputs[j].Blur()
	}
}

func (a App) updateQueryInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "tab", "shift+tab", "down", "up":
			if !a.query.editing() {
				return a, a.query.focus(a.query.focused)
			}
			return a, a.query.focus((a.query.focused + 1) % len(a.query.inputs))
		case "enter":
			a.runQuery()
			return a, nil
		case "esc":
			a.query.blur()
			return a, nil
		}
	}

	cmds := make([]tea.Cmd, 0, len(a.query.inputs))
	for i := range a.query.inputs {
		var cmd tea.Cmd
		a.query.inputs[i], cmd = a.query.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

// runQuery prorates the entered range against the loaded budgets.
func (a *App) runQuery() {
	start, err := budget.ParseDate(strings.TrimSpace(a.query.inputs[0].Value()))
	if err != nil {
		a.query.result, a.query.err = nil, fmt.Errorf("start: %w", err)
		return
	}
	end, err := budget.ParseDate(strings.TrimSpace(a.query.inputs[1].Value()))
	if err != nil {
		a.query.result, a.query.err = nil, fmt.Errorf("end: %w", err)
		return
	}

	months := budget.Prorate(start, end, a.lookup)
	a.query.result = &queryResult{
		start:  start,
		end:    end,
		months: months,
		total:  budget.Total(months),
	}
	a.query.err = nil
}

func (a App) renderQueryTab(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString("\n")

	inputs := a.query.inputs[0].View() + "\n" + a.query.inputs[1].View()
	b.WriteString(components.ContentCard("Date range (inclusive)", inputs, cw))
	b.WriteString("\n")

	if a.query.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Red).Render("  " + a.query.err.Error()))
		return b.String()
	}

	res := a.query.result
	if res == nil {
		b.WriteString(muted.Render("  Press tab to edit the dates and enter to run the query."))
		return b.String()
	}

	days := 0
	for _, c := range res.months {
		days += c.Days
	}
	note := fmt.Sprintf("%s to %s", res.start.Format(budget.DateLayout), res.end.Format(budget.DateLayout))
	if res.start.After(res.end) {
		note = "start is after end"
	}

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Total", Value: cli.FormatAmount(res.total, a.format), Note: note},
		{Label: "Days", Value: fmt.Sprintf("%d", days)},
		{Label: "Months", Value: fmt.Sprintf("%d", len(res.months))},
	}, cw))
	b.WriteString("\n")

	if len(res.months) == 0 {
		return b.String()
	}

	inner := components.CardInnerWidth(cw)
	barW := inner - 48
	if barW < 8 {
		barW = 8
	}

	var rows strings.Builder
	for i, c := range res.months {
		if i > 0 {
			rows.WriteString("\n")
		}
		share := float64(c.Days) / float64(c.DaysInMonth)
		fmt.Fprintf(&rows, "%-9s %7s  %s  %16s",
			cli.FormatMonth(c.YearMonth),
			cli.FormatDays(c.Days, c.DaysInMonth),
			components.ShareBar(share, barW),
			cli.FormatAmount(c.Amount, a.format))
	}
	b.WriteString(components.ContentCard("Breakdown", rows.String(), cw))
	return b.String()
}
