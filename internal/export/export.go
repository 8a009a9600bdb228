// Package export renders ledger data as xlsx workbooks.
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"finanzas/internal/core"
)

const (
	TransactionsSheet = "Transactions"
	SummarySheet      = "Summary"

	// ContentType is the MIME type of the generated workbooks.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Header is the first row of the transactions sheet.
var Header = []string{"ID", "Date", "Kind", "Category", "Amount", "Description"}

// FileName returns the report file name for a period.
func FileName(year, month int) string {
	return fmt.Sprintf("report_%04d_%02d.xlsx", year, month)
}

// Rows converts transactions into sheet rows in the given order. Amounts are
// decimal units.
func Rows(txs []core.Transaction) [][]interface{} {
	rows := make([][]interface{}, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, []interface{}{t.ID, t.Date.String(), t.Kind.String(), t.Category, t.Amount.Units(), t.Description})
	}
	return rows
}

// WriteTransactions writes a workbook with a single transactions sheet.
func WriteTransactions(w io.Writer, txs []core.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeTransactionsSheet(f, txs); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Bytes returns the workbook produced by WriteTransactions.
func Bytes(txs []core.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTransactions(&buf, txs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes the period's transactions plus a summary sheet with the
// bundle's headline figures.
func WriteReport(w io.Writer, b core.KPIBundle) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeTransactionsSheet(f, b.PeriodTransactions); err != nil {
		return err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	if err := setRows(f, SummarySheet, SummaryRows(b)); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SummaryRows lists the bundle's headline metrics as (label, value) rows.
func SummaryRows(b core.KPIBundle) [][]interface{} {
	return [][]interface{}{
		{"Period", b.Period.String()},
		{"Total income", b.TotalIncome.Units()},
		{"Total expense", b.TotalExpense.Units()},
		{"Net savings", b.NetSavings.Units()},
		{"Prior net savings", b.PriorNetSavings.Units()},
		{"Savings variation %", b.SavingsVariationPct},
		{"Budget used %", b.BudgetUsedPct},
		{"Goal progress %", b.GoalProgressPct},
		{"Anomalies", b.AnomalyCount},
		{"Current period", yesNo(b.IsCurrentPeriod)},
		{"Projected savings", b.ProjectedSavings.Units()},
		{"On track for goal", yesNo(b.OnTrackForGoal)},
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func writeTransactionsSheet(f *excelize.File, txs []core.Transaction) error {
	// A new file starts with "Sheet1".
	if err := f.SetSheetName("Sheet1", TransactionsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	return setRows(f, TransactionsSheet, append([][]interface{}{header}, Rows(txs)...))
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for rowIdx, row := range rows {
		for colIdx, val := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
