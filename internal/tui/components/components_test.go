package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/prorata/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, tc := range []struct{ total, n int }{{80, 3}, {81, 4}, {10, 1}, {7, 7}} {
		widths := LayoutRow(tc.total, tc.n)
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if sum != tc.total {
			t.Fatalf("LayoutRow(%d, %d) sums to %d, want %d", tc.total, tc.n, sum, tc.total)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow(_, 0) should be nil")
	}
}

func TestCardRowMatchesTallestCard(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	tallLines := len(strings.Split(tallCard, "\n"))
	joined := CardRow([]string{tallCard, shortCard})
	if got := len(strings.Split(joined, "\n")); got != tallLines {
		t.Fatalf("joined height = %d, want %d", got, tallLines)
	}
	if got := lipgloss.Width(joined); got != 44 {
		t.Fatalf("joined width = %d, want 44", got)
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Total", Value: "6.00"},
		{Label: "Days", Value: "4", Note: "2 months"},
	}, 60)
	if got := lipgloss.Width(row); got != 60 {
		t.Fatalf("MetricCardRow width = %d, want 60", got)
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('b'); got != 0 {
		t.Fatalf("TabIdxByKey('b') = %d, want 0", got)
	}
	if got := TabIdxByKey('q'); got != 1 {
		t.Fatalf("TabIdxByKey('q') = %d, want 1", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Fatalf("TabIdxByKey('z') = %d, want -1", got)
	}
}

func TestShareBar(t *testing.T) {
	bar := ShareBar(0.5, 10)
	if !strings.Contains(bar, "50%") {
		t.Fatalf("ShareBar(0.5) = %q, want it to contain 50%%", bar)
	}
	if !strings.Contains(ShareBar(2, 10), "100%") {
		t.Fatal("ShareBar should clamp above 1")
	}
}
