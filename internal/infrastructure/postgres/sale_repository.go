package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas y líneas sobre PostgreSQL. Create debe llamarse dentro de una tx.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera y luego cada línea.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, merchant_id, location_id, user_id, customer_name, customer_phone, notes,
			sale_date, total_amount, cost_of_goods_sold, net_income, profit_margin, platform_fee, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.MerchantID, s.LocationID, s.UserID, nullString(s.CustomerName), nullString(s.CustomerPhone), nullString(s.Notes),
		s.SaleDate, s.TotalAmount, s.CostOfGoodsSold, s.NetIncome, s.ProfitMargin, s.PlatformFee, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	itemQuery := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, list_price, cost_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, it := range s.Items {
		if _, err := r.q.Exec(ctx, itemQuery,
			it.ID, s.ID, it.ProductID, it.Quantity, it.UnitPrice, it.ListPrice, it.CostPrice, it.Subtotal,
		); err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID carga la venta con sus líneas (nil, nil si no existe).
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	query := `
		SELECT id, merchant_id, location_id, user_id, customer_name, customer_phone, notes,
			sale_date, total_amount, cost_of_goods_sold, net_income, profit_margin, platform_fee, created_at
		FROM sales WHERE id = $1`
	var (
		s                      entity.Sale
		customer, phone, notes *string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.MerchantID, &s.LocationID, &s.UserID, &customer, &phone, &notes,
		&s.SaleDate, &s.TotalAmount, &s.CostOfGoodsSold, &s.NetIncome, &s.ProfitMargin, &s.PlatformFee, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	s.CustomerName = fromNull(customer)
	s.CustomerPhone = fromNull(phone)
	s.Notes = fromNull(notes)

	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price, list_price, cost_price, subtotal
		FROM sale_items WHERE sale_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.ListPrice, &it.CostPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	return &s, rows.Err()
}
