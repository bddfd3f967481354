package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "0",
		"999":       "999",
		"25000":     "25.000",
		"1000000":   "1.000.000",
		"1234567.5": "1.234.567,50",
		"-4500.25":  "-4.500,25",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestRenderDebtStatement(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -2)
	summary := ledger.DebtSummary{
		TotalDebt:    decimal.NewFromInt(150),
		TotalCredit:  decimal.NewFromInt(100),
		TotalPartial: decimal.NewFromInt(50),
		UnpaidItems: []ledger.UnpaidItem{
			{EntryID: "e-1", ProductName: "Café 500g", Quantity: 10, SupplierName: "Andes SAS",
				PaymentStatus: entity.PaymentCredit, Outstanding: decimal.NewFromInt(100), PaymentDueDate: &due, Overdue: true},
			{EntryID: "e-2", ProductID: "prod-q", Quantity: 5,
				PaymentStatus: entity.PaymentPartial, Outstanding: decimal.NewFromInt(50)},
		},
		SupplierBreakdown: []ledger.SupplierDebt{
			{SupplierName: "Andes SAS", TotalOwed: decimal.NewFromInt(100), EntryCount: 1},
			{SupplierName: ledger.UnknownSupplier, TotalOwed: decimal.NewFromInt(50), EntryCount: 1},
		},
	}

	out, err := NewDebtStatementGenerator().RenderDebtStatement(context.Background(), "m-1", summary, now)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderDebtStatement_SinDeudas(t *testing.T) {
	out, err := NewDebtStatementGenerator().RenderDebtStatement(context.Background(), "m-1", ledger.SummarizeDebt(nil, time.Now()), time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
