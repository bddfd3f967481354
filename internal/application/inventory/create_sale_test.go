package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saleItem(productID string, qty int64, price string) inventory.SaleItemInput {
	return inventory.SaleItemInput{ProductID: productID, Quantity: qty, UnitPrice: decimal.RequireFromString(price)}
}

func TestCreateSale_TotalesYMovimientos(t *testing.T) {
	f := newFixture(t)
	f.addStock(t, prodP, locL1, 20)
	f.addStock(t, prodQ, locL1, 10)

	res, err := inventory.NewCreateSaleUseCase(f.deps).CreateSale(context.Background(), f.caller, inventory.CreateSaleInput{
		Items:        []inventory.SaleItemInput{saleItem(prodP, 2, "12"), saleItem(prodQ, 3, "4")},
		CustomerName: "Ana",
	})
	require.NoError(t, err)

	sale := res.Sale
	assert.Equal(t, locL1, sale.LocationID)
	assert.True(t, sale.TotalAmount.Equal(decimal.NewFromInt(36)), "2*12 + 3*4")
	assert.True(t, sale.CostOfGoodsSold.Equal(decimal.NewFromInt(21)), "2*6 + 3*3")
	assert.True(t, sale.NetIncome.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, "41.67", sale.ProfitMargin.StringFixed(2))
	assert.Equal(t, "0.72", sale.PlatformFee.StringFixed(2), "2% de 36")
	require.Len(t, sale.Items, 2)
	assert.True(t, sale.Items[0].ListPrice.Equal(decimal.NewFromInt(10)), "precio de lista al momento de la venta")

	require.Len(t, res.Movements, 2)
	for _, m := range res.Movements {
		assert.Equal(t, entity.MovementSale, m.Type)
		assert.Negative(t, m.Quantity)
		assert.Equal(t, sale.ID, m.ReferenceID)
		assert.Equal(t, entity.ReferenceSale, m.ReferenceType)
	}
	assert.Equal(t, int64(18), res.StockAfter[prodP])
	assert.Equal(t, int64(7), res.StockAfter[prodQ])
	assert.Equal(t, 1, f.store.SaleCount())
	assert.Contains(t, f.audit.Actions(), inventory.AuditSaleCreated)
}

// Si una línea no alcanza, no se persiste ninguna.
func TestCreateSale_AtomicaAnteStockInsuficiente(t *testing.T) {
	f := newFixture(t)
	f.addStock(t, prodP, locL1, 20)
	f.addStock(t, prodQ, locL1, 2)
	movementsBefore := len(f.store.MovementsSnapshot())

	_, err := inventory.NewCreateSaleUseCase(f.deps).CreateSale(context.Background(), f.caller, inventory.CreateSaleInput{
		Items: []inventory.SaleItemInput{saleItem(prodP, 5, "10"), saleItem(prodQ, 3, "4")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var ise *ledger.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, prodQ, ise.ProductID)
	assert.Equal(t, "Azúcar 1kg", ise.ProductName)
	assert.Equal(t, int64(2), ise.Available)
	assert.Equal(t, int64(3), ise.Requested)
	assert.Equal(t, int64(1), ise.Shortfall())

	assert.Len(t, f.store.MovementsSnapshot(), movementsBefore)
	assert.Equal(t, 0, f.store.SaleCount())
	assert.Equal(t, int64(20), f.stock(t, prodP, locL1))
	assert.Equal(t, int64(2), f.stock(t, prodQ, locL1))
}

// Una falla a mitad de la escritura revierte la venta completa.
func TestCreateSale_FallaDeEscrituraRevierteTodo(t *testing.T) {
	f := newFixture(t)
	f.addStock(t, prodP, locL1, 20)
	f.addStock(t, prodQ, locL1, 20)
	movementsBefore := len(f.store.MovementsSnapshot())

	calls := 0
	f.store.SetFault(func(op string) error {
		if op == "movements.create" {
			calls++
			if calls == 2 {
				return errBoom
			}
		}
		return nil
	})

	_, err := inventory.NewCreateSaleUseCase(f.deps).CreateSale(context.Background(), f.caller, inventory.CreateSaleInput{
		Items: []inventory.SaleItemInput{saleItem(prodP, 1, "10"), saleItem(prodQ, 1, "4")},
	})
	require.ErrorIs(t, err, errBoom)
	assert.Len(t, f.store.MovementsSnapshot(), movementsBefore)
	assert.Equal(t, 0, f.store.SaleCount())
}

// Líneas repetidas del mismo producto se validan contra la suma.
func TestCreateSale_LineasDuplicadasSeAgregan(t *testing.T) {
	f := newFixture(t)
	f.addStock(t, prodP, locL1, 5)

	_, err := inventory.NewCreateSaleUseCase(f.deps).CreateSale(context.Background(), f.caller, inventory.CreateSaleInput{
		Items: []inventory.SaleItemInput{saleItem(prodP, 3, "10"), saleItem(prodP, 3, "10")},
	})
	var ise *ledger.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, int64(6), ise.Requested)
	assert.Equal(t, int64(5), f.stock(t, prodP, locL1))
}

func TestCreateSale_ItemsInvalidos(t *testing.T) {
	cases := []struct {
		name  string
		items []inventory.SaleItemInput
		want  error
	}{
		{"sin líneas", nil, domain.ErrInvalidItems},
		{"producto inexistente", []inventory.SaleItemInput{saleItem("nope", 1, "1")}, domain.ErrInvalidItems},
		{"producto inactivo", []inventory.SaleItemInput{saleItem(prodInact, 1, "1")}, domain.ErrInvalidItems},
		{"producto de otra empresa", []inventory.SaleItemInput{saleItem(prodForeign, 1, "1")}, domain.ErrInvalidItems},
		{"cantidad cero", []inventory.SaleItemInput{saleItem(prodP, 0, "1")}, domain.ErrInvalidQuantity},
		{"precio cero", []inventory.SaleItemInput{saleItem(prodP, 1, "0")}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := inventory.NewCreateSaleUseCase(f.deps).CreateSale(context.Background(), f.caller, inventory.CreateSaleInput{Items: tc.items})
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, domain.ErrInvalidInput, "todo error de items es de validación")
		})
	}
}

func TestCreateSale_ItemsInvalidosNombraLosProductos(t *testing.T) {
	f := newFixture(t)
	_, err := inventory.NewCreateSaleUseCase(f.deps).CreateSale(context.Background(), f.caller, inventory.CreateSaleInput{
		Items: []inventory.SaleItemInput{saleItem(prodP, 1, "1"), saleItem("nope", 1, "1"), saleItem(prodInact, 1, "1")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
	assert.Contains(t, err.Error(), prodInact)
	assert.NotContains(t, err.Error(), prodP)
}

func TestCreateSale_MargenCeroConTotalCero(t *testing.T) {
	totals := ledger.ComputeSaleTotals(nil)
	assert.True(t, totals.ProfitMargin.IsZero())
}

// Ventas concurrentes sobre el mismo producto nunca venden más de lo disponible.
func TestCreateSale_ConcurrenciaNoSobrevende(t *testing.T) {
	f := newFixture(t)
	f.addStock(t, prodQ, locL1, 10)
	uc := inventory.NewCreateSaleUseCase(f.deps)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.CreateSale(context.Background(), f.caller, inventory.CreateSaleInput{
				Items: []inventory.SaleItemInput{saleItem(prodQ, 1, "4")},
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, int64(0), f.stock(t, prodQ, locL1))
}
