package cli

import (
	"math"
	"math/big"
	"strings"
	"testing"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name string
		r    *big.Rat
		f    AmountFormat
		want string
	}{
		{"whole", big.NewRat(6, 1), AmountFormat{Locale: "en", Precision: 2}, "6.00"},
		{"grouped", big.NewRat(2469135, 2), AmountFormat{Locale: "en", Precision: 2}, "1,234,567.50"},
		{"german", big.NewRat(2469135, 2), AmountFormat{Locale: "de", Precision: 2}, "1.234.567,50"},
		{"rounded", big.NewRat(10, 31), AmountFormat{Locale: "en", Precision: 2}, "0.32"},
		{"no fraction", big.NewRat(63, 1), AmountFormat{Locale: "en"}, "63"},
		{"currency", big.NewRat(4, 1), AmountFormat{Locale: "en", Currency: "EUR", Precision: 2}, "EUR 4.00"},
		{"bad locale", big.NewRat(1, 1), AmountFormat{Locale: "!!", Precision: 1}, "1.0"},
		{"nil", nil, AmountFormat{Locale: "en", Precision: 2}, "0.00"},
		{"above float precision", big.NewRat(9007199254740993, 1), AmountFormat{Locale: "en", Precision: 2}, "9,007,199,254,740,993.00"},
		{"max int64 german", big.NewRat(math.MaxInt64, 1), AmountFormat{Locale: "de"}, "9.223.372.036.854.775.807"},
		{"negative", big.NewRat(-2469135, 2), AmountFormat{Locale: "en", Precision: 1}, "-1,234,567.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAmount(tt.r, tt.f); got != tt.want {
				t.Fatalf("FormatAmount() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatInt(t *testing.T) {
	got := FormatInt(2000, AmountFormat{Locale: "en", Precision: 2})
	if got != "2,000" {
		t.Fatalf("FormatInt() = %q, want %q", got, "2,000")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{
		0:             "0",
		999:           "999",
		1000:          "1,000",
		1234567:       "1,234,567",
		-1234567:      "-1,234,567",
		math.MinInt64: "-9,223,372,036,854,775,808",
	}
	for n, want := range tests {
		if got := FormatNumber(n); got != want {
			t.Fatalf("FormatNumber(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestFormatMonth(t *testing.T) {
	if got := FormatMonth("202004"); got != "Apr 2020" {
		t.Fatalf("FormatMonth() = %q, want %q", got, "Apr 2020")
	}
	if got := FormatMonth("nope"); got != "nope" {
		t.Fatalf("FormatMonth(malformed) = %q, want input unchanged", got)
	}
}

func TestShare(t *testing.T) {
	if got := Share(big.NewRat(2, 1), big.NewRat(6, 1)); got < 0.333 || got > 0.334 {
		t.Fatalf("Share() = %v, want ~0.333", got)
	}
	if got := Share(big.NewRat(2, 1), new(big.Rat)); got != 0 {
		t.Fatalf("Share(zero total) = %v, want 0", got)
	}
	if got := FormatPercent(0.5); got != "50.0%" {
		t.Fatalf("FormatPercent() = %q, want %q", got, "50.0%")
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Month", "Amount"},
		Rows:    [][]string{{"202004", "30"}, {"---"}, {"Total", "30"}},
	})
	for _, want := range []string{"Month", "202004", "Total", "╭", "╯"} {
		if !strings.Contains(out, want) {
			t.Fatalf("RenderTable() missing %q in:\n%s", want, out)
		}
	}
	if RenderTable(Table{}) != "" {
		t.Fatal("RenderTable(empty) should be empty")
	}
}

func TestRenderSparkline(t *testing.T) {
	got := RenderSparkline([]float64{0, 4, 8})
	if got != "▁▄█" {
		t.Fatalf("RenderSparkline() = %q, want %q", got, "▁▄█")
	}
}
