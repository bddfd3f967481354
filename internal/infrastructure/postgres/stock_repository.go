package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo lecturas agregadas del ledger sobre PostgreSQL (usable con pool o tx).
// El stock nunca se guarda: se calcula con SUM/COUNT sobre receipt_entries y stock_movements.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Tally agrega entradas y movimientos (por tipo) de un producto.
func (r *StockRepo) Tally(ctx context.Context, merchantID, productID, locationID string) (ledger.Tally, error) {
	t := ledger.NewTally()

	w := &where{}
	w.add("merchant_id = ?", merchantID)
	w.add("product_id = ?", productID)
	if locationID != "" {
		w.add("location_id = ?", locationID)
	}

	var count, sum int64
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(quantity), 0)::bigint FROM receipt_entries`+w.sql(),
		w.args...,
	).Scan(&count, &sum)
	if err != nil {
		return t, fmt.Errorf("sum receipt entries: %w", err)
	}
	t.AddReceipts(count, sum)

	rows, err := r.q.Query(ctx,
		`SELECT type, COUNT(*), COALESCE(SUM(quantity), 0)::bigint FROM stock_movements`+w.sql()+` GROUP BY type`,
		w.args...,
	)
	if err != nil {
		return t, fmt.Errorf("sum stock movements: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var typ string
		if err := rows.Scan(&typ, &count, &sum); err != nil {
			return t, fmt.Errorf("scan movement tally: %w", err)
		}
		t.AddMovements(entity.MovementType(typ), count, sum)
	}
	return t, rows.Err()
}

// TallyBatch mismo cálculo que Tally para varios productos con dos consultas agrupadas.
func (r *StockRepo) TallyBatch(ctx context.Context, merchantID string, productIDs []string, locationID string) (map[string]ledger.Tally, error) {
	out := make(map[string]ledger.Tally, len(productIDs))
	for _, id := range productIDs {
		out[id] = ledger.NewTally()
	}
	if len(productIDs) == 0 {
		return out, nil
	}

	w := &where{}
	w.add("merchant_id = ?", merchantID)
	w.add("product_id = ANY(?)", productIDs)
	if locationID != "" {
		w.add("location_id = ?", locationID)
	}

	rows, err := r.q.Query(ctx,
		`SELECT product_id, COUNT(*), COALESCE(SUM(quantity), 0)::bigint FROM receipt_entries`+w.sql()+` GROUP BY product_id`,
		w.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sum receipt entries batch: %w", err)
	}
	for rows.Next() {
		var (
			productID  string
			count, sum int64
		)
		if err := rows.Scan(&productID, &count, &sum); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan receipt tally: %w", err)
		}
		t := out[productID]
		t.AddReceipts(count, sum)
		out[productID] = t
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.q.Query(ctx,
		`SELECT product_id, type, COUNT(*), COALESCE(SUM(quantity), 0)::bigint FROM stock_movements`+w.sql()+` GROUP BY product_id, type`,
		w.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sum stock movements batch: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			productID, typ string
			count, sum     int64
		)
		if err := rows.Scan(&productID, &typ, &count, &sum); err != nil {
			return nil, fmt.Errorf("scan movement tally: %w", err)
		}
		t := out[productID]
		t.AddMovements(entity.MovementType(typ), count, sum)
		out[productID] = t
	}
	return out, rows.Err()
}

// Lock toma pg_advisory_xact_lock por cada par, en orden estable para evitar interbloqueos.
// Los bloqueos se liberan en el commit o rollback.
func (r *StockRepo) Lock(ctx context.Context, keys ...repository.StockKey) error {
	for _, k := range repository.SortStockKeys(keys) {
		if _, err := r.q.Exec(ctx,
			`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
			k.ProductID+":"+k.LocationID,
		); err != nil {
			return fmt.Errorf("lock stock %s/%s: %w", k.ProductID, k.LocationID, err)
		}
	}
	return nil
}
