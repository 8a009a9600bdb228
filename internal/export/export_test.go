package export

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"finanzas/internal/core"
)

func sampleTransactions() []core.Transaction {
	return []core.Transaction{
		{ID: 7, Kind: core.Income, Category: "Salary", Amount: core.Money{Cents: 100000}, Date: core.NewDate(2024, 1, 5), Description: "January"},
		{ID: 9, Kind: core.Expense, Category: "Food", Amount: core.Money{Cents: 20550}, Date: core.NewDate(2024, 1, 10)},
	}
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "report_2024_01.xlsx", FileName(2024, 1))
	assert.Equal(t, "report_0999_12.xlsx", FileName(999, 12))
}

func TestBytesWritesHeaderAndRows(t *testing.T) {
	data, err := Bytes(sampleTransactions())
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{TransactionsSheet}, f.GetSheetList())

	rows, err := f.GetRows(TransactionsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])

	assert.Equal(t, "7", rows[1][0])
	assert.Equal(t, "2024-01-05", rows[1][1])
	assert.Equal(t, "income", rows[1][2])
	assert.Equal(t, "Salary", rows[1][3])
	amount, err := strconv.ParseFloat(rows[1][4], 64)
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, amount, 1e-9)
	assert.Equal(t, "January", rows[1][5])

	assert.Equal(t, "9", rows[2][0])
	assert.Equal(t, "expense", rows[2][2])
	amount, err = strconv.ParseFloat(rows[2][4], 64)
	require.NoError(t, err)
	assert.InDelta(t, 205.5, amount, 1e-9)
}

func TestBytesEmptyLedgerHasOnlyHeader(t *testing.T) {
	data, err := Bytes(nil)
	require.NoError(t, err)

	rows, err := openWorkbook(t, data).GetRows(TransactionsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Header, rows[0])
}

func TestWriteReportIncludesSummary(t *testing.T) {
	b := core.KPIBundle{
		Period:             core.Period{Year: 2024, Month: 1},
		PeriodTransactions: sampleTransactions(),
		TotalIncome:        core.Money{Cents: 100000},
		TotalExpense:       core.Money{Cents: 20550},
		NetSavings:         core.Money{Cents: 79450},
		AnomalyCount:       0,
	}
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, b))

	f := openWorkbook(t, buf.Bytes())
	assert.ElementsMatch(t, []string{TransactionsSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, rows, len(SummaryRows(b)))
	assert.Equal(t, []string{"Period", "2024-01"}, rows[0])
	assert.Equal(t, "Net savings", rows[3][0])
	net, err := strconv.ParseFloat(rows[3][1], 64)
	require.NoError(t, err)
	assert.InDelta(t, 794.5, net, 1e-9)

	txRows, err := f.GetRows(TransactionsSheet)
	require.NoError(t, err)
	assert.Len(t, txRows, 3)
}

func TestSummaryRowsIncludeProjection(t *testing.T) {
	b := core.KPIBundle{
		Period:           core.Period{Year: 2024, Month: 1},
		IsCurrentPeriod:  true,
		ProjectedSavings: core.Money{Cents: 12345},
		OnTrackForGoal:   true,
	}
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, b))

	rows, err := openWorkbook(t, buf.Bytes()).GetRows(SummarySheet)
	require.NoError(t, err)

	byLabel := make(map[string]string, len(rows))
	for _, row := range rows {
		require.Len(t, row, 2)
		byLabel[row[0]] = row[1]
	}
	assert.Equal(t, "yes", byLabel["Current period"])
	assert.Equal(t, "yes", byLabel["On track for goal"])
	projected, err := strconv.ParseFloat(byLabel["Projected savings"], 64)
	require.NoError(t, err)
	assert.InDelta(t, 123.45, projected, 1e-9)

	past := SummaryRows(core.KPIBundle{Period: core.Period{Year: 2023, Month: 12}})
	assert.Equal(t, []interface{}{"Current period", "no"}, past[len(past)-3])
}
