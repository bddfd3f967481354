package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// LocationRepository lectura del registro de ubicaciones.
type LocationRepository interface {
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	// GetDefault devuelve la ubicación por defecto de la empresa (nil, nil si no hay).
	GetDefault(ctx context.Context, merchantID string) (*entity.Location, error)
}
