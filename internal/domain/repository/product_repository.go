package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductRepository lectura del catálogo. El CRUD de productos vive en otro servicio.
type ProductRepository interface {
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// ListByIDs devuelve los productos encontrados; los faltantes se omiten.
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Product, error)
	ListActiveByMerchant(ctx context.Context, merchantID string) ([]*entity.Product, error)
}
