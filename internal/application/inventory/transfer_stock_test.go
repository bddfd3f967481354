package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// El total entre ubicaciones se conserva.
func TestTransferStock_Conservacion(t *testing.T) {
	f := newFixture(t)
	f.addStock(t, prodQ, locL1, 12)
	totalBefore := f.stock(t, prodQ, "")

	res, err := inventory.NewTransferStockUseCase(f.deps).TransferStock(context.Background(), f.caller, inventory.TransferInput{
		ProductID:      prodQ,
		FromLocationID: locL1,
		ToLocationID:   locL2,
		Quantity:       4,
		Notes:          "reabastecer bodega",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(8), res.SourceStock)
	assert.Equal(t, int64(4), res.DestinationStock)
	assert.Equal(t, int64(8), f.stock(t, prodQ, locL1))
	assert.Equal(t, int64(4), f.stock(t, prodQ, locL2))
	assert.Equal(t, totalBefore, f.stock(t, prodQ, ""))

	assert.Equal(t, entity.MovementTransferOut, res.OutMovement.Type)
	assert.Equal(t, int64(-4), res.OutMovement.Quantity)
	assert.Equal(t, entity.MovementTransferIn, res.InMovement.Type)
	assert.Equal(t, int64(4), res.InMovement.Quantity)
	assert.Equal(t, res.OutMovement.ReferenceID, res.InMovement.ReferenceID)
	assert.Contains(t, res.OutMovement.Reason, "reabastecer bodega")

	entry := res.DestinationEntry
	assert.Equal(t, locL2, entry.LocationID)
	assert.Equal(t, entity.PaymentPaid, entry.PaymentStatus)
	assert.Nil(t, entry.TotalCost, "un traslado no genera deuda")
	assert.Contains(t, f.audit.Actions(), inventory.AuditStockTransfer)
}

func TestTransferStock_MismaUbicacion(t *testing.T) {
	f := newFixture(t)
	_, err := inventory.NewTransferStockUseCase(f.deps).TransferStock(context.Background(), f.caller, inventory.TransferInput{
		ProductID: prodQ, FromLocationID: locL1, ToLocationID: locL1, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransfer)
}

func TestTransferStock_DestinoDeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	f.addStock(t, prodQ, locL1, 5)
	_, err := inventory.NewTransferStockUseCase(f.deps).TransferStock(context.Background(), f.caller, inventory.TransferInput{
		ProductID: prodQ, FromLocationID: locL1, ToLocationID: locForeign, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, int64(5), f.stock(t, prodQ, locL1))
}

// El error de faltante incluye el desglose del cálculo.
func TestTransferStock_InsuficienteConDesglose(t *testing.T) {
	f := newFixture(t)
	f.addStock(t, prodQ, locL1, 2)
	rowsBefore := len(f.store.MovementsSnapshot())

	_, err := inventory.NewTransferStockUseCase(f.deps).TransferStock(context.Background(), f.caller, inventory.TransferInput{
		ProductID: prodQ, FromLocationID: locL1, ToLocationID: locL2, Quantity: 3,
	})
	var ise *ledger.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, locL1, ise.LocationID)
	assert.Equal(t, int64(2), ise.Available)
	assert.Equal(t, int64(3), ise.Requested)
	assert.Contains(t, ise.Breakdown, "entradas=1")
	assert.Contains(t, err.Error(), "faltan 1")

	assert.Len(t, f.store.MovementsSnapshot(), rowsBefore)
	assert.Len(t, f.store.ReceiptsSnapshot(), 1)
}

// Con stock negativo el traslado se bloquea y el error lo señala.
func TestTransferStock_StockNegativoBloquea(t *testing.T) {
	f := newFixture(t)
	_, err := inventory.NewAdjustStockUseCase(f.deps).AdjustStock(context.Background(), f.caller, inventory.AdjustStockInput{
		ProductID: prodQ, LocationID: locL1, Type: "ADJUSTMENT", Quantity: -2, Correction: true,
	})
	require.NoError(t, err)

	_, err = inventory.NewTransferStockUseCase(f.deps).TransferStock(context.Background(), f.caller, inventory.TransferInput{
		ProductID: prodQ, FromLocationID: locL1, ToLocationID: locL2, Quantity: 1,
	})
	var ise *ledger.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, int64(-2), ise.Available)
	assert.Contains(t, err.Error(), "negativo")
	assert.Contains(t, ise.Breakdown, "ADJUSTMENT=1 (suma -2)")
}

func TestTransferStock_CantidadInvalida(t *testing.T) {
	f := newFixture(t)
	_, err := inventory.NewTransferStockUseCase(f.deps).TransferStock(context.Background(), f.caller, inventory.TransferInput{
		ProductID: prodQ, FromLocationID: locL1, ToLocationID: locL2, Quantity: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}
