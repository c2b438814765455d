package sheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/prorata/internal/budget"
)

func TestBudgetsWorkbookRoundTrip(t *testing.T) {
	in := []budget.MonthlyBudget{
		{YearMonth: "202004", Amount: 30},
		{YearMonth: "202005", Amount: 62},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBudgets(&buf, in))

	got, err := ReadBudgets(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestReadBudgets_SkipsBlankRowsAndRejectsFractions(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"month", "amount"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"202101", 62}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"202102", 28}))

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	got, err := ReadBudgets(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []budget.MonthlyBudget{
		{YearMonth: "202101", Amount: 62},
		{YearMonth: "202102", Amount: 28},
	}, got)

	require.NoError(t, f.SetCellValue(sheet, "B4", 28.5))
	buf.Reset()
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	_, err = ReadBudgets(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "B4")
}

func TestWriteBreakdown(t *testing.T) {
	start, _ := budget.ParseDate("2020-04-29")
	end, _ := budget.ParseDate("2020-05-02")
	lookup := budget.NewLookup([]budget.MonthlyBudget{
		{YearMonth: "202004", Amount: 30},
		{YearMonth: "202005", Amount: 62},
	})
	months := budget.Prorate(start, end, lookup)

	var buf bytes.Buffer
	require.NoError(t, WriteBreakdown(&buf, Report{
		Start:     start,
		End:       end,
		Months:    months,
		Total:     budget.Total(months),
		Precision: 2,
	}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	raw := excelize.Options{RawCellValue: true}
	cell := func(ref string) string {
		v, err := f.GetCellValue("Breakdown", ref, raw)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Budget 2020-04-29 to 2020-05-02", cell("A1"))
	assert.Equal(t, "202004", cell("A4"))
	assert.Equal(t, "2", cell("C4"))
	assert.Equal(t, "202005", cell("A5"))
	assert.Equal(t, "31", cell("D5"))
	assert.Equal(t, "4", cell("E5"))
	assert.Equal(t, "Total", cell("A6"))
	assert.Equal(t, "6", cell("E6"))
}

func TestWriteBreakdown_KeepsLargeAmountsExact(t *testing.T) {
	start, _ := budget.ParseDate("2020-01-01")
	end, _ := budget.ParseDate("2020-01-31")
	months := budget.Prorate(start, end, budget.NewLookup([]budget.MonthlyBudget{
		{YearMonth: "202001", Amount: 9007199254740993},
	}))

	var buf bytes.Buffer
	require.NoError(t, WriteBreakdown(&buf, Report{
		Start:     start,
		End:       end,
		Months:    months,
		Total:     budget.Total(months),
		Precision: 2,
	}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	raw := excelize.Options{RawCellValue: true}
	for _, ref := range []string{"E4", "E5"} {
		v, err := f.GetCellValue("Breakdown", ref, raw)
		require.NoError(t, err)
		assert.Equal(t, "9007199254740993", v, ref)
	}
}
