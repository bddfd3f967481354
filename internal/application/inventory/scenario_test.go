package inventory_test

import (
	"context"
	"testing"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Entrada de 20, venta de 15 (alerta 5 <= 5) y traslado de 3 de L1 a L2.
func TestEscenario_EntradaVentaTraslado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addStock(t, prodP, locL1, 20)
	assert.Empty(t, f.notifier.Alerts())

	_, err := inventory.NewCreateSaleUseCase(f.deps).CreateSale(ctx, f.caller, inventory.CreateSaleInput{
		LocationID: locL1,
		Items:      []inventory.SaleItemInput{saleItem(prodP, 15, "10")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), f.stock(t, prodP, locL1))

	alerts := f.notifier.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, int64(5), alerts[0].CurrentStock)
	assert.Equal(t, int64(5), alerts[0].Threshold)

	_, err = inventory.NewTransferStockUseCase(f.deps).TransferStock(ctx, f.caller, inventory.TransferInput{
		ProductID: prodP, FromLocationID: locL1, ToLocationID: locL2, Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.stock(t, prodP, locL1))
	assert.Equal(t, int64(3), f.stock(t, prodP, locL2))
	assert.Equal(t, int64(5), f.stock(t, prodP, ""))
}

// Crédito de 100, pago de 40: PARTIAL con saldo 60.
func TestEscenario_CreditoYPagoParcial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := inventory.NewAddStockUseCase(f.deps).AddStock(ctx, f.caller, inventory.AddStockInput{
		ProductID: prodP, Quantity: 10, PaymentStatus: "CREDIT", TotalCost: dec("100"),
	})
	require.NoError(t, err)

	debts := inventory.NewDebtUseCase(f.deps, nil)
	summary, err := debts.DebtSummary(ctx, f.caller)
	require.NoError(t, err)
	assert.Equal(t, "100", summary.TotalDebt.String())

	entry, err := debts.MarkAsPaid(ctx, f.caller, res.Entry.ID, dec("40"))
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentPartial, entry.PaymentStatus)
	assert.Equal(t, "60", entry.Outstanding().String())

	summary, err = debts.DebtSummary(ctx, f.caller)
	require.NoError(t, err)
	assert.Equal(t, "60", summary.TotalDebt.String())
	assert.Equal(t, "60", summary.TotalPartial.String())
}
