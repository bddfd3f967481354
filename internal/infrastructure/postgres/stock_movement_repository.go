package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo movimientos append-only sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, merchant_id, product_id, location_id, user_id, type, quantity,
	reason, reference_id, reference_type, created_at`

// Create inserta un movimiento. No existen Update ni Delete.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.MerchantID, m.ProductID, m.LocationID, m.UserID, string(m.Type), m.Quantity,
		nullString(m.Reason), nullString(m.ReferenceID), nullString(m.ReferenceType), m.CreatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("insert stock movement: %w", domain.ErrInvalidQuantity)
		}
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// List historial filtrado, más recientes primero.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	w := &where{}
	w.add("merchant_id = ?", f.MerchantID)
	if f.ProductID != "" {
		w.add("product_id = ?", f.ProductID)
	}
	if f.LocationID != "" {
		w.add("location_id = ?", f.LocationID)
	}
	if len(f.Types) > 0 {
		types := make([]string, 0, len(f.Types))
		for _, t := range f.Types {
			types = append(types, string(t))
		}
		w.add("type = ANY(?)", types)
	}
	if f.From != nil {
		w.add("created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("created_at <= ?", *f.To)
	}
	query := `SELECT ` + movementColumns + ` FROM stock_movements` + w.sql() +
		` ORDER BY created_at DESC, seq DESC` + w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.StockMovement, 0)
	for rows.Next() {
		var (
			m                      entity.StockMovement
			typ                    string
			reason, refID, refType *string
		)
		if err := rows.Scan(
			&m.ID, &m.MerchantID, &m.ProductID, &m.LocationID, &m.UserID, &typ, &m.Quantity,
			&reason, &refID, &refType, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.Type = entity.MovementType(typ)
		m.Reason = fromNull(reason)
		m.ReferenceID = fromNull(refID)
		m.ReferenceType = fromNull(refType)
		out = append(out, &m)
	}
	return out, rows.Err()
}
