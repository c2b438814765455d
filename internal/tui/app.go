// Package tui provides the interactive Bubble Tea view for prorata.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/prorata/internal/budget"
	"github.com/theirongolddev/prorata/internal/cli"
	"github.com/theirongolddev/prorata/internal/source"
	"github.com/theirongolddev/prorata/internal/tui/components"
	"github.com/theirongolddev/prorata/internal/tui/theme"
)

// BudgetsLoadedMsg is sent when the budget source has been read.
type BudgetsLoadedMsg struct {
	Budgets  []budget.MonthlyBudget
	Err      error
	LoadTime time.Duration
}

const (
	tabBudgets = iota
	tabQuery
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 120
	minContentHeight = 5
)

// App is the root Bubble Tea model.
type App struct {
	reader     source.Reader
	sourceKind string
	format     cli.AmountFormat

	// Data
	budgets  []budget.MonthlyBudget
	lookup   budget.Lookup
	loaded   bool
	loading  bool
	loadErr  error
	loadTime time.Duration

	// UI state
	width     int
	height    int
	activeTab int

	table   table.Model
	query   queryState
	spinner spinner.Model
}

// NewApp creates a TUI model reading budgets from r.
func NewApp(r source.Reader, sourceKind string, format cli.AmountFormat) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	return App{
		reader:     r,
		sourceKind: sourceKind,
		format:     format,
		lookup:     budget.Lookup{},
		loading:    true,
		table:      newBudgetsTable(),
		query:      newQueryState(),
		spinner:    sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(loadBudgetsCmd(a.reader), a.spinner.Tick)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.table.SetWidth(a.contentWidth() - 4)
		a.table.SetHeight(max(a.height-8, minContentHeight))
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// Query inputs capture typing while focused.
		if a.activeTab == tabQuery && a.query.editing() {
			return a.updateQueryInput(msg)
		}

		switch key {
		case "r":
			if !a.loading {
				a.loading = true
				return a, tea.Batch(loadBudgetsCmd(a.reader), a.spinner.Tick)
			}
			return a, nil
		case "tab", "enter":
			if a.activeTab == tabQuery {
				return a.updateQueryInput(msg)
			}
		case "left", "right":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		}

		if len(key) == 1 {
			if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
				a.activeTab = idx
				if idx == tabQuery {
					return a, a.query.focus(a.query.focused)
				}
				return a, nil
			}
		}

		if a.activeTab == tabBudgets {
			var cmd tea.Cmd
			a.table, cmd = a.table.Update(msg)
			return a, cmd
		}
		return a, nil

	case BudgetsLoadedMsg:
		a.loading = false
		a.loadTime = msg.LoadTime
		a.loadErr = msg.Err
		if msg.Err == nil {
			a.setBudgets(msg.Budgets)
		}
		a.loaded = true
		return a, nil

	case spinner.TickMsg:
		if a.loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	if a.activeTab == tabQuery {
		return a.updateQueryInput(msg)
	}
	return a, nil
}

// setBudgets swaps in a freshly loaded budget set and re-runs any query
// already on screen against it.
func (a *App) setBudgets(budgets []budget.MonthlyBudget) {
	a.budgets = budgets
	a.lookup = budget.NewLookup(budgets)
	a.table.SetRows(a.budgetRows())
	if a.query.result != nil {
		a.runQuery()
	}
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  prorata needs at least %d columns.\n",
			a.width, minTerminalWidth)
	}

	if !a.loaded {
		return a.viewLoading()
	}

	return a.viewMain()
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	body := logoStyle.Render("◈ prorata") + subtitleStyle.Render(" · budget proration") + "\n\n" +
		a.spinner.View() + subtitleStyle.Render(" Loading budgets from "+a.sourceKind+"...")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)

	hints := "[b]udgets  [q]uery  [r]eload  ^c quit"
	if a.activeTab == tabQuery {
		hints = "tab next field  enter run  esc leave inputs  ^c quit"
	}
	info := fmt.Sprintf("%s · %d months · %.2fs", a.sourceKind, len(a.lookup), a.loadTime.Seconds())
	if a.loading {
		info = a.spinner.View() + " reloading"
	}
	statusBar := components.RenderStatusBar(w, hints, info)

	contentH := a.height - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	if a.loadErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(t.Red)
		content = "\n" + components.ContentCard("Could not load budgets",
			errStyle.Render(a.loadErr.Error()), cw) + "\n"
	}
	switch a.activeTab {
	case tabBudgets:
		content += a.renderBudgetsTab(cw)
	case tabQuery:
		content += a.renderQueryTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.PlaceHorizontal(w, lipgloss.Center, content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// ─── Helpers ────────────────────────────────────────────────────

// loadBudgetsCmd reads the budget source in the background.
func loadBudgetsCmd(r source.Reader) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		budgets, err := source.Fetch(ctx, r)
		return BudgetsLoadedMsg{
			Budgets:  budgets,
			Err:      err,
			LoadTime: time.Since(start),
		}
	}
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
