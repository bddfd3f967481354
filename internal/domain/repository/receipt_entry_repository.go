package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ReceiptFilter filtros para listar entradas de stock. MerchantID es obligatorio.
type ReceiptFilter struct {
	MerchantID     string
	ProductID      string
	LocationID     string
	Statuses       []entity.PaymentStatus
	ExpiringBefore *time.Time
	Limit          int
	Offset         int
}

// ReceiptEntryRepository persistencia de entradas de stock. No existe Delete: las entradas son permanentes.
type ReceiptEntryRepository interface {
	Create(ctx context.Context, entry *entity.ReceiptEntry) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.ReceiptEntry, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para liquidar la deuda.
	GetForUpdate(ctx context.Context, id string) (*entity.ReceiptEntry, error)
	// UpdatePayment actualiza solo los campos de pago.
	UpdatePayment(ctx context.Context, entry *entity.ReceiptEntry) error
	List(ctx context.Context, filter ReceiptFilter) ([]*entity.ReceiptEntry, error)
}
