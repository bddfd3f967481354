package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ReceiptEntryRepository = (*ReceiptEntryRepo)(nil)

// ReceiptEntryRepo entradas de stock sobre PostgreSQL (usable con pool o tx).
type ReceiptEntryRepo struct {
	q Querier
}

// NewReceiptEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceiptEntryRepository(q Querier) *ReceiptEntryRepo {
	return &ReceiptEntryRepo{q: q}
}

const receiptColumns = `id, merchant_id, product_id, location_id, quantity, batch_number, expiration_date,
	received_date, notes, added_by, payment_status, supplier_name, supplier_contact,
	total_cost, paid_amount, payment_due_date, paid_at, created_at, updated_at`

// Create inserta una entrada.
func (r *ReceiptEntryRepo) Create(ctx context.Context, e *entity.ReceiptEntry) error {
	query := `INSERT INTO receipt_entries (` + receiptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.MerchantID, e.ProductID, e.LocationID, e.Quantity, nullString(e.BatchNumber), e.ExpirationDate,
		e.ReceivedDate, nullString(e.Notes), e.AddedBy, string(e.PaymentStatus), nullString(e.SupplierName), nullString(e.SupplierContact),
		e.TotalCost, e.PaidAmount, e.PaymentDueDate, e.PaidAt, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("insert receipt entry: %w", domain.ErrInvalidQuantity)
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("insert receipt entry: %w", domain.ErrConflict)
		}
		return fmt.Errorf("insert receipt entry: %w", err)
	}
	return nil
}

// GetByID devuelve nil, nil si no existe.
func (r *ReceiptEntryRepo) GetByID(ctx context.Context, id string) (*entity.ReceiptEntry, error) {
	return r.get(ctx, `SELECT `+receiptColumns+` FROM receipt_entries WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *ReceiptEntryRepo) GetForUpdate(ctx context.Context, id string) (*entity.ReceiptEntry, error) {
	return r.get(ctx, `SELECT `+receiptColumns+` FROM receipt_entries WHERE id = $1 FOR UPDATE`, id)
}

func (r *ReceiptEntryRepo) get(ctx context.Context, query, id string) (*entity.ReceiptEntry, error) {
	e, err := scanReceipt(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receipt entry: %w", err)
	}
	return e, nil
}

// UpdatePayment actualiza solo los campos de pago; el resto de la entrada es inmutable.
func (r *ReceiptEntryRepo) UpdatePayment(ctx context.Context, e *entity.ReceiptEntry) error {
	query := `
		UPDATE receipt_entries
		SET payment_status = $2, paid_amount = $3, paid_at = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, e.ID, string(e.PaymentStatus), e.PaidAmount, e.PaidAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update receipt payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

// List filtra por empresa (obligatorio), producto, ubicación, estados y vencimiento.
func (r *ReceiptEntryRepo) List(ctx context.Context, f repository.ReceiptFilter) ([]*entity.ReceiptEntry, error) {
	w := &where{}
	w.add("merchant_id = ?", f.MerchantID)
	if f.ProductID != "" {
		w.add("product_id = ?", f.ProductID)
	}
	if f.LocationID != "" {
		w.add("location_id = ?", f.LocationID)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		w.add("payment_status = ANY(?)", statuses)
	}
	if f.ExpiringBefore != nil {
		w.add("expiration_date <= ?", *f.ExpiringBefore)
	}
	query := `SELECT ` + receiptColumns + ` FROM receipt_entries` + w.sql() +
		` ORDER BY received_date DESC, created_at DESC` + w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list receipt entries: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.ReceiptEntry, 0)
	for rows.Next() {
		e, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanReceipt(row pgx.Row) (*entity.ReceiptEntry, error) {
	var (
		e                               entity.ReceiptEntry
		batch, notes, supplier, contact *string
		status                          string
	)
	err := row.Scan(
		&e.ID, &e.MerchantID, &e.ProductID, &e.LocationID, &e.Quantity, &batch, &e.ExpirationDate,
		&e.ReceivedDate, &notes, &e.AddedBy, &status, &supplier, &contact,
		&e.TotalCost, &e.PaidAmount, &e.PaymentDueDate, &e.PaidAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.BatchNumber = fromNull(batch)
	e.Notes = fromNull(notes)
	e.SupplierName = fromNull(supplier)
	e.SupplierContact = fromNull(contact)
	e.PaymentStatus = entity.PaymentStatus(status)
	return &e, nil
}
