package inventory_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Dos lecturas sin escrituras intermedias dan el mismo valor.
func TestCurrentStock_Idempotente(t *testing.T) {
	f := newFixture(t)
	f.addStock(t, prodP, locL1, 9)
	first := f.stock(t, prodP, locL1)
	second := f.stock(t, prodP, locL1)
	assert.Equal(t, first, second)
	assert.Len(t, f.store.MovementsSnapshot(), 1, "leer no escribe")
}

func TestCurrentStock_Errores(t *testing.T) {
	f := newFixture(t)
	uc := inventory.NewStockQueryUseCase(f.deps)

	_, err := uc.CurrentStock(context.Background(), f.caller, "nope", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.CurrentStock(context.Background(), f.caller, prodForeign, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.CurrentStock(context.Background(), f.caller, prodP, "nope")
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
}

// El lote devuelve exactamente lo mismo que la consulta individual.
func TestCurrentStockBatch_IgualALaConsultaIndividual(t *testing.T) {
	f := newFixture(t)
	f.addStock(t, prodP, locL1, 9)
	f.addStock(t, prodQ, locL1, 4)
	f.addStock(t, prodQ, locL2, 6)
	uc := inventory.NewStockQueryUseCase(f.deps)

	for _, loc := range []string{locL1, locL2, ""} {
		batch, err := uc.CurrentStockBatch(context.Background(), f.caller, []string{prodP, prodQ, prodForeign, "nope"}, loc)
		require.NoError(t, err)
		assert.Len(t, batch, 2, "productos ajenos o inexistentes se omiten")
		assert.NotContains(t, batch, prodForeign)
		assert.NotContains(t, batch, "nope")
		assert.Equal(t, f.stock(t, prodP, loc), batch[prodP], "ubicación %q", loc)
		assert.Equal(t, f.stock(t, prodQ, loc), batch[prodQ], "ubicación %q", loc)
	}
}

// El stock negativo se devuelve tal cual y se registra en el log.
func TestCurrentStock_NegativoSeReportaYSeRegistra(t *testing.T) {
	f := newFixture(t)
	var buf bytes.Buffer
	f.deps.Log = logger.NewWithWriter(&buf, "warn")

	_, err := inventory.NewAdjustStockUseCase(f.deps).AdjustStock(context.Background(), f.caller, inventory.AdjustStockInput{
		ProductID: prodQ, LocationID: locL2, Type: "ADJUSTMENT", Quantity: -1, Correction: true,
	})
	require.NoError(t, err)
	buf.Reset()

	n, err := inventory.NewStockQueryUseCase(f.deps).CurrentStock(context.Background(), f.caller, prodQ, locL2)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), n)
	assert.Contains(t, buf.String(), "stock negativo")
	assert.Contains(t, buf.String(), prodQ)
}

func TestListMovements_FiltrosYOrden(t *testing.T) {
	f := newFixture(t)
	f.addStock(t, prodP, locL1, 9)
	f.addStock(t, prodQ, locL1, 4)
	_, err := inventory.NewCreateSaleUseCase(f.deps).CreateSale(context.Background(), f.caller, inventory.CreateSaleInput{
		Items: []inventory.SaleItemInput{saleItem(prodP, 1, "10")},
	})
	require.NoError(t, err)
	uc := inventory.NewStockQueryUseCase(f.deps)

	all, err := uc.ListMovements(context.Background(), f.caller, inventory.MovementQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, entity.MovementSale, all[0].Type, "más reciente primero")

	sales, err := uc.ListMovements(context.Background(), f.caller, inventory.MovementQuery{Types: []string{"SALE"}})
	require.NoError(t, err)
	assert.Len(t, sales, 1)

	byProduct, err := uc.ListMovements(context.Background(), f.caller, inventory.MovementQuery{ProductID: prodQ})
	require.NoError(t, err)
	assert.Len(t, byProduct, 1)

	paged, err := uc.ListMovements(context.Background(), f.caller, inventory.MovementQuery{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, paged, 1)

	_, err = uc.ListMovements(context.Background(), f.caller, inventory.MovementQuery{Types: []string{"LOST"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	from, to := fixedNow, fixedNow.Add(-time.Hour)
	_, err = uc.ListMovements(context.Background(), f.caller, inventory.MovementQuery{From: &from, To: &to})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListReceipts_ProximosAVencer(t *testing.T) {
	f := newFixture(t)
	add := inventory.NewAddStockUseCase(f.deps)
	soon := fixedNow.AddDate(0, 0, 5)
	later := fixedNow.AddDate(0, 0, 60)
	for _, exp := range []*time.Time{&soon, &later, nil} {
		_, err := add.AddStock(context.Background(), f.caller, inventory.AddStockInput{ProductID: prodP, Quantity: 10, ExpirationDate: exp})
		require.NoError(t, err)
	}
	uc := inventory.NewStockQueryUseCase(f.deps)

	all, err := uc.ListReceipts(context.Background(), f.caller, inventory.ReceiptQuery{ProductID: prodP})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	expiring, err := uc.ListReceipts(context.Background(), f.caller, inventory.ReceiptQuery{ExpiringWithinDays: 30})
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.True(t, expiring[0].ExpirationDate.Equal(soon))

	_, err = uc.ListReceipts(context.Background(), f.caller, inventory.ReceiptQuery{ExpiringWithinDays: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Otra empresa no ve las filas del ledger.
func TestListMovements_AisladoPorEmpresa(t *testing.T) {
	f := newFixture(t)
	f.addStock(t, prodP, locL1, 9)

	other := inventory.Caller{UserID: "u-2", MerchantID: otherMerchantID}
	movs, err := inventory.NewStockQueryUseCase(f.deps).ListMovements(context.Background(), other, inventory.MovementQuery{})
	require.NoError(t, err)
	assert.Empty(t, movs)
}
