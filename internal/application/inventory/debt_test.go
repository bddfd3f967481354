package inventory_test

import (
	"context"
	"testing"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addCredit(t *testing.T, f *fixture, supplier, total string, paid string) *entity.ReceiptEntry {
	t.Helper()
	in := inventory.AddStockInput{
		ProductID:     prodP,
		Quantity:      10,
		PaymentStatus: "CREDIT",
		SupplierName:  supplier,
		TotalCost:     dec(total),
	}
	if paid != "" {
		in.PaymentStatus = "PARTIAL"
		in.PaidAmount = dec(paid)
	}
	res, err := inventory.NewAddStockUseCase(f.deps).AddStock(context.Background(), f.caller, in)
	require.NoError(t, err)
	return res.Entry
}

func TestDebtSummary_TotalesYProveedores(t *testing.T) {
	f := newFixture(t)
	addCredit(t, f, "Distribuidora Andina", "100", "")
	addCredit(t, f, "Distribuidora Andina", "80", "30")
	addCredit(t, f, "", "20", "")
	f.addStock(t, prodP, locL1, 5) // PAID, no suma deuda

	summary, err := inventory.NewDebtUseCase(f.deps, nil).DebtSummary(context.Background(), f.caller)
	require.NoError(t, err)

	assert.Equal(t, "170", summary.TotalDebt.String())
	assert.Equal(t, "120", summary.TotalCredit.String())
	assert.Equal(t, "50", summary.TotalPartial.String())
	require.Len(t, summary.UnpaidItems, 3)
	for _, it := range summary.UnpaidItems {
		assert.Equal(t, "Café 500g", it.ProductName)
	}
	require.Len(t, summary.SupplierBreakdown, 2)
	assert.Equal(t, "Distribuidora Andina", summary.SupplierBreakdown[0].SupplierName)
	assert.Equal(t, "150", summary.SupplierBreakdown[0].TotalOwed.String())
	assert.Equal(t, ledger.UnknownSupplier, summary.SupplierBreakdown[1].SupplierName)
}

func TestMarkAsPaid_Transiciones(t *testing.T) {
	cases := []struct {
		name        string
		amount      string // vacío = pago total
		status      entity.PaymentStatus
		outstanding string
		paidAt      bool
	}{
		{"pago total implícito", "", entity.PaymentPaid, "0", true},
		{"pago exacto", "100", entity.PaymentPaid, "0", true},
		{"sobrepago", "120", entity.PaymentPaid, "0", true},
		{"pago parcial", "40", entity.PaymentPartial, "60", false},
		{"pago cero", "0", entity.PaymentCredit, "100", false},
		{"centésimas redondeadas al total", "99.999", entity.PaymentPaid, "0", true},
		{"parcial a dos decimales", "40.004", entity.PaymentPartial, "60", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			entry := addCredit(t, f, "Distribuidora Andina", "100", "")

			var amount *decimal.Decimal
			if tc.amount != "" {
				amount = dec(tc.amount)
			}
			got, err := inventory.NewDebtUseCase(f.deps, nil).MarkAsPaid(context.Background(), f.caller, entry.ID, amount)
			require.NoError(t, err)
			assert.Equal(t, tc.status, got.PaymentStatus)
			assert.Equal(t, tc.outstanding, got.Outstanding().String())
			assert.Equal(t, tc.paidAt, got.PaidAt != nil)

			stored := f.store.ReceiptsSnapshot()
			require.Len(t, stored, 1)
			assert.Equal(t, tc.status, stored[0].PaymentStatus, "el pago queda persistido")
			assert.Contains(t, f.audit.Actions(), inventory.AuditDebtSettlement)
		})
	}
}

func TestMarkAsPaid_Errores(t *testing.T) {
	f := newFixture(t)
	entry := addCredit(t, f, "Distribuidora Andina", "100", "")
	uc := inventory.NewDebtUseCase(f.deps, nil)

	_, err := uc.MarkAsPaid(context.Background(), f.caller, entry.ID, dec("-5"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.MarkAsPaid(context.Background(), f.caller, "nope", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	other := inventory.Caller{UserID: "u-2", MerchantID: otherMerchantID}
	_, err = uc.MarkAsPaid(context.Background(), other, entry.ID, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Equal(t, entity.PaymentCredit, f.store.ReceiptsSnapshot()[0].PaymentStatus, "los errores no modifican la entrada")
}

func TestDebtStatement_UsaElResumenActual(t *testing.T) {
	f := newFixture(t)
	addCredit(t, f, "Distribuidora Andina", "100", "")
	renderer := &stubRenderer{}

	pdf, err := inventory.NewDebtUseCase(f.deps, renderer).DebtStatement(context.Background(), f.caller)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-stub"), pdf)
	assert.Equal(t, "100", renderer.summary.TotalDebt.String())
}
