package export

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbookLayout(t *testing.T) {
	rep := Report{
		Title:             "Sales Report",
		Sheet:             "Sales",
		CounterpartyLabel: "Cashier",
		StartDate:         "2026-03-01",
		EndDate:           "2026-03-02",
		Documents: []Document{
			{
				ID:           12,
				Date:         time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
				Counterparty: "Cashier A",
				Total:        decimal.NewFromInt(17500),
				Lines: []DocumentLine{
					{ProductName: "Mineral Water 600ml", Quantity: 2, UnitPrice: decimal.NewFromInt(3500), Subtotal: decimal.NewFromInt(7000)},
					{ProductName: "Potato Chips 80g", Quantity: 1, UnitPrice: decimal.NewFromInt(10500), Subtotal: decimal.NewFromInt(10500)},
				},
			},
		},
		GrandTotal: decimal.NewFromInt(17500),
	}

	f, err := Workbook(rep)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Sales", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Sales Report (2026-03-01 to 2026-03-02)", title)

	label, err := f.GetCellValue("Sales", "D2")
	require.NoError(t, err)
	assert.Equal(t, "Cashier", label)

	// Two line rows belong to one merged transaction block.
	product, err := f.GetCellValue("Sales", "E4")
	require.NoError(t, err)
	assert.Equal(t, "Potato Chips 80g", product)

	merged, err := f.GetMergeCells("Sales")
	require.NoError(t, err)
	ranges := make(map[string]bool)
	for _, m := range merged {
		ranges[m.GetStartAxis()+":"+m.GetEndAxis()] = true
	}
	assert.True(t, ranges["D3:D4"], "counterparty cell must span the transaction's rows")
	assert.True(t, ranges["I3:I4"], "total cell must span the transaction's rows")

	grandLabel, err := f.GetCellValue("Sales", "A5")
	require.NoError(t, err)
	assert.Equal(t, "GRAND TOTAL", grandLabel)

	grand, err := f.GetCellValue("Sales", "I5", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "17500", grand)
}

func TestWorkbookEmptyReport(t *testing.T) {
	f, err := Workbook(Report{Title: "Purchase Report", Sheet: "Purchases", CounterpartyLabel: "Supplier", GrandTotal: decimal.Zero})
	require.NoError(t, err)
	defer f.Close()

	grandLabel, err := f.GetCellValue("Purchases", "A3")
	require.NoError(t, err)
	assert.Equal(t, "GRAND TOTAL", grandLabel)
}
