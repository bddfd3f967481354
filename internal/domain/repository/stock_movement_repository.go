package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MovementFilter filtros para el historial de movimientos. MerchantID es obligatorio.
type MovementFilter struct {
	MerchantID string
	ProductID  string
	LocationID string
	Types      []entity.MovementType
	From, To   *time.Time
	Limit      int
	Offset     int
}

// StockMovementRepository persistencia append-only de movimientos.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
}
