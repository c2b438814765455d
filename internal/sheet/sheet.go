// Package sheet reads budget workbooks and writes query breakdowns as XLSX.
package sheet

import (
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/prorata/internal/budget"
)

const appName = "prorata"

// Report is a prorated query ready to be written out.
type Report struct {
	Start, End time.Time
	Months     []budget.Contribution
	Total      *big.Rat
	Precision  int32
}

// ReadBudgets reads "YYYYMM | amount" rows from the first sheet of a
// workbook. A leading header row and blank rows are skipped. Amounts must
// be whole numbers.
func ReadBudgets(r io.Reader) ([]budget.MonthlyBudget, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", sheet, err)
	}

	var out []budget.MonthlyBudget
	for i, row := range rows {
		key, amount := cellAt(row, 0), cellAt(row, 1)
		if key == "" && amount == "" {
			continue
		}

		d, err := decimal.NewFromString(amount)
		if err != nil {
			if i == 0 {
				continue // header
			}
			return nil, fmt.Errorf("%s!B%d: amount %q is not a number", sheet, i+1, amount)
		}
		if !d.IsInteger() {
			return nil, fmt.Errorf("%s!B%d: amount %q is not a whole number", sheet, i+1, amount)
		}

		out = append(out, budget.MonthlyBudget{YearMonth: key, Amount: d.IntPart()})
	}
	return out, nil
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// WriteBudgets writes a budgets workbook in the layout ReadBudgets accepts.
func WriteBudgets(w io.Writer, budgets []budget.MonthlyBudget) error {
	f := newFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, "Budgets"); err != nil {
		return err
	}
	sheet = "Budgets"
	_ = f.SetColWidth(sheet, "A", "B", 14)

	_ = f.SetSheetRow(sheet, "A1", &[]any{"Month", "Amount"})
	hdr, _ := f.NewStyle(mergeStyles(baseStyle(), fontBold(), bottomBorder()))
	_ = f.SetCellStyle(sheet, "A1", "B1", hdr)

	for i, b := range budgets {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = f.SetSheetRow(sheet, cell, &[]any{b.YearMonth, b.Amount})
	}

	_, err := f.WriteTo(w)
	return err
}

// WriteBreakdown writes one row per month of the report plus a total row.
func WriteBreakdown(w io.Writer, rep Report) error {
	f := newFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, "Breakdown"); err != nil {
		return err
	}
	sheet = "Breakdown"

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "E", 14)

	title := fmt.Sprintf("Budget %s to %s", rep.Start.Format(budget.DateLayout), rep.End.Format(budget.DateLayout))
	_ = f.SetCellValue(sheet, "A1", title)
	titleStyle, _ := f.NewStyle(mergeStyles(baseStyle(), fontBold()))
	_ = f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	_ = f.SetSheetRow(sheet, "A3", &[]any{"Month", "Budget", "Days", "Days in month", "Amount"})
	hdr, _ := f.NewStyle(mergeStyles(baseStyle(), fontBold(), bottomBorder(), alignRight()))
	_ = f.SetCellStyle(sheet, "A3", "E3", hdr)

	amountStyle, _ := f.NewStyle(mergeStyles(baseStyle(), numberFormat(rep.Precision)))

	row := 4
	for _, c := range rep.Months {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetSheetRow(sheet, cell, &[]any{c.YearMonth, c.Budget, c.Days, c.DaysInMonth})
		amountCell, _ := excelize.CoordinatesToCellName(5, row)
		_ = setDecimal(f, sheet, amountCell, budget.Decimal(c.Amount, rep.Precision))
		_ = f.SetCellStyle(sheet, amountCell, amountCell, amountStyle)
		row++
	}

	totalStyle, _ := f.NewStyle(mergeStyles(baseStyle(), fontBold(), topBorder(), numberFormat(rep.Precision)))
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(5, row)
	_ = f.SetCellValue(sheet, first, "Total")
	_ = setDecimal(f, sheet, last, budget.Decimal(rep.Total, rep.Precision))
	_ = f.SetCellStyle(sheet, first, last, totalStyle)

	_ = f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      3,
		TopLeftCell: "A4",
		ActivePane:  "bottomLeft",
	})

	_, err := f.WriteTo(w)
	return err
}

// setDecimal stores d as a numeric cell from its decimal text, so no digits
// are lost to float64.
func setDecimal(f *excelize.File, sheet, cell string, d decimal.Decimal) error {
	return f.SetCellDefault(sheet, cell, d.String())
}

func newFile() *excelize.File {
	f := excelize.NewFile()
	_ = f.SetAppProps(&excelize.AppProperties{
		Application: appName,
	})
	return f
}

func baseStyle() *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{Family: "Calibri", Size: 11},
	}
}

func fontBold() *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{Family: "Calibri", Size: 11, Bold: true},
	}
}

func alignRight() *excelize.Style {
	return &excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "right"},
	}
}

func bottomBorder() *excelize.Style {
	return &excelize.Style{
		Border: []excelize.Border{{Type: "bottom", Color: "#000000", Style: 1}},
	}
}

func topBorder() *excelize.Style {
	return &excelize.Style{
		Border: []excelize.Border{{Type: "top", Color: "#000000", Style: 2}},
	}
}

func numberFormat(places int32) *excelize.Style {
	format := "#,##0"
	if places > 0 {
		format += "." + strings.Repeat("0", int(places))
	}
	return &excelize.Style{CustomNumFmt: &format}
}

// mergeStyles folds later styles into the first; set fields win.
func mergeStyles(ext ...*excelize.Style) *excelize.Style {
	if len(ext) == 0 {
		return nil
	}
	for _, e := range ext[1:] {
		_ = mergo.Merge(ext[0], e, mergo.WithOverride)
	}
	return ext[0]
}
