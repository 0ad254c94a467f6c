// Package export renders transaction reports as xlsx workbooks. It is
// deliberately decoupled from the purchase and sale packages; callers
// map their reports into Document values.
package export

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Document is one transaction in a report. Counterparty is the
// supplier for purchases and the cashier for sales.
type Document struct {
	ID           int64
	Date         time.Time
	Counterparty string
	Total        decimal.Decimal
	Lines        []DocumentLine
}

type DocumentLine struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// Report is the workbook input. CounterpartyLabel names the third
// column ("Supplier" or "Cashier").
type Report struct {
	Title             string
	Sheet             string
	CounterpartyLabel string
	StartDate         string
	EndDate           string
	Documents         []Document
	GrandTotal        decimal.Decimal
}

const (
	currencyFmt = `"Rp" #,##0`
	dateFmt     = "dd-mm-yyyy hh:mm:ss"
)

var headers = []string{"No", "ID", "Date", "", "Product", "Qty", "Price", "Subtotal", "Total"}

// Workbook builds the spreadsheet: one row per line, with the shared
// transaction cells merged vertically across the transaction's rows,
// and a bold grand total at the bottom.
func Workbook(rep Report) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := rep.Sheet
	if sheet == "" {
		sheet = "Report"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	if err := f.MergeCell(sheet, "A1", "I1"); err != nil {
		return nil, err
	}
	title := rep.Title
	if rep.StartDate != "" {
		title = fmt.Sprintf("%s (%s to %s)", rep.Title, rep.StartDate, rep.EndDate)
	}
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", styles.title); err != nil {
		return nil, err
	}

	headerRow := make([]string, len(headers))
	copy(headerRow, headers)
	headerRow[3] = rep.CounterpartyLabel
	for i, h := range headerRow {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(sheet, "A2", "I2", styles.header); err != nil {
		return nil, err
	}

	row := 3
	for n, doc := range rep.Documents {
		first := row
		last := row + len(doc.Lines) - 1
		if len(doc.Lines) == 0 {
			last = row
		}

		for _, line := range doc.Lines {
			setCells(f, sheet, row, map[string]any{
				"E": line.ProductName,
				"F": line.Quantity,
				"G": toFloat(line.UnitPrice),
				"H": toFloat(line.Subtotal),
			})
			row++
		}
		if len(doc.Lines) == 0 {
			row++
		}

		// The transaction-level cells span all of its line rows.
		if last > first {
			for _, col := range []string{"A", "B", "C", "D", "I"} {
				if err := f.MergeCell(sheet, fmt.Sprintf("%s%d", col, first), fmt.Sprintf("%s%d", col, last)); err != nil {
					return nil, err
				}
			}
		}
		setCells(f, sheet, first, map[string]any{
			"A": n + 1,
			"B": doc.ID,
			"C": doc.Date,
			"D": doc.Counterparty,
			"I": toFloat(doc.Total),
		})

		if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", first), fmt.Sprintf("I%d", last), styles.body); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("C%d", first), fmt.Sprintf("C%d", last), styles.date); err != nil {
			return nil, err
		}
		for _, col := range []string{"G", "H", "I"} {
			if err := f.SetCellStyle(sheet, fmt.Sprintf("%s%d", col, first), fmt.Sprintf("%s%d", col, last), styles.currency); err != nil {
				return nil, err
			}
		}
	}

	if err := f.MergeCell(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row)); err != nil {
		return nil, err
	}
	setCells(f, sheet, row, map[string]any{
		"A": "GRAND TOTAL",
		"I": toFloat(rep.GrandTotal),
	})
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("I%d", row), styles.grandTotal); err != nil {
		return nil, err
	}

	widths := map[string]float64{"A": 5, "B": 8, "C": 22, "D": 24, "E": 28, "F": 8, "G": 16, "H": 16, "I": 18}
	for col, w := range widths {
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return nil, err
		}
	}
	return f, nil
}

type styleSet struct {
	title      int
	header     int
	body       int
	date       int
	currency   int
	grandTotal int
}

func newStyles(f *excelize.File) (styleSet, error) {
	thin := []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}
	currency := currencyFmt
	date := dateFmt

	var s styleSet
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Border:    thin,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return s, err
	}
	if s.body, err = f.NewStyle(&excelize.Style{
		Border:    thin,
		Alignment: &excelize.Alignment{Vertical: "center"},
	}); err != nil {
		return s, err
	}
	if s.date, err = f.NewStyle(&excelize.Style{
		Border:       thin,
		CustomNumFmt: &date,
		Alignment:    &excelize.Alignment{Vertical: "center"},
	}); err != nil {
		return s, err
	}
	if s.currency, err = f.NewStyle(&excelize.Style{
		Border:       thin,
		CustomNumFmt: &currency,
		Alignment:    &excelize.Alignment{Vertical: "center"},
	}); err != nil {
		return s, err
	}
	if s.grandTotal, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Border:       thin,
		CustomNumFmt: &currency,
		Alignment:    &excelize.Alignment{Vertical: "center"},
	}); err != nil {
		return s, err
	}
	return s, nil
}

func setCells(f *excelize.File, sheet string, row int, values map[string]any) {
	for col, v := range values {
		_ = f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), v)
	}
}

func toFloat(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}
