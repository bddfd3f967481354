package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo lectura de ubicaciones (tiendas/bodegas) sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de persistencia para ubicaciones.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	query := `
		SELECT id, merchant_id, name, address, is_default, created_at, updated_at
		FROM locations WHERE id = $1`
	return r.get(ctx, query, id)
}

// GetDefault obtiene la ubicación por defecto de la empresa (a lo sumo una, por índice único parcial).
func (r *LocationRepo) GetDefault(ctx context.Context, merchantID string) (*entity.Location, error) {
	query := `
		SELECT id, merchant_id, name, address, is_default, created_at, updated_at
		FROM locations WHERE merchant_id = $1 AND is_default`
	return r.get(ctx, query, merchantID)
}

func (r *LocationRepo) get(ctx context.Context, query, arg string) (*entity.Location, error) {
	var (
		l       entity.Location
		address *string
	)
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&l.ID, &l.MerchantID, &l.Name, &address, &l.IsDefault, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	l.Address = fromNull(address)
	return &l, nil
}
