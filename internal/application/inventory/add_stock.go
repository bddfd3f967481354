package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// AddStockUseCase registra entradas físicas de stock (ReceiptEntry + movimiento STOCK_IN de auditoría).
type AddStockUseCase struct {
	deps Deps
}

// NewAddStockUseCase construye el caso de uso.
func NewAddStockUseCase(deps Deps) *AddStockUseCase {
	return &AddStockUseCase{deps: deps.withDefaults()}
}

// AddStockInput entrada para registrar stock recibido.
// LocationID vacío = ubicación por defecto de la empresa. PaymentStatus vacío = PAID.
type AddStockInput struct {
	ProductID       string
	LocationID      string
	Quantity        int64
	BatchNumber     string
	ExpirationDate  *time.Time
	ReceivedDate    *time.Time
	Notes           string
	PaymentStatus   string
	SupplierName    string
	SupplierContact string
	TotalCost       *decimal.Decimal
	PaidAmount      *decimal.Decimal
	PaymentDueDate  *time.Time
}

// AddStockResult entrada creada, movimiento de auditoría y stock resultante.
type AddStockResult struct {
	Entry        *entity.ReceiptEntry
	Movement     *entity.StockMovement
	CurrentStock int64
}

// AddStock valida producto y ubicación, crea la entrada y su STOCK_IN en una transacción
// y, tras el commit, recalcula el stock y revisa el umbral de stock bajo.
func (uc *AddStockUseCase) AddStock(ctx context.Context, caller Caller, in AddStockInput) (*AddStockResult, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	status, err := entity.ParsePaymentStatus(in.PaymentStatus)
	if err != nil {
		return nil, err
	}
	in.TotalCost = ledger.RoundMoney(in.TotalCost)
	in.PaidAmount = ledger.RoundMoney(in.PaidAmount)
	if err := validatePayment(status, in.TotalCost, in.PaidAmount); err != nil {
		return nil, err
	}

	product, err := uc.deps.loadProduct(ctx, caller, in.ProductID)
	if err != nil {
		return nil, err
	}
	loc, err := uc.deps.resolveLocation(ctx, caller, in.LocationID)
	if err != nil {
		return nil, err
	}

	now := uc.deps.Now()
	received := now
	if in.ReceivedDate != nil {
		received = *in.ReceivedDate
	}
	entry := &entity.ReceiptEntry{
		ID:              uuid.New().String(),
		MerchantID:      product.MerchantID,
		ProductID:       product.ID,
		LocationID:      loc.ID,
		Quantity:        in.Quantity,
		BatchNumber:     in.BatchNumber,
		ExpirationDate:  in.ExpirationDate,
		ReceivedDate:    received,
		Notes:           in.Notes,
		AddedBy:         caller.UserID,
		PaymentStatus:   status,
		SupplierName:    in.SupplierName,
		SupplierContact: in.SupplierContact,
		TotalCost:       in.TotalCost,
		PaidAmount:      in.PaidAmount,
		PaymentDueDate:  in.PaymentDueDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if status == entity.PaymentPaid {
		entry.PaidAt = &now
		if entry.PaidAmount == nil && entry.TotalCost != nil {
			paid := *entry.TotalCost
			entry.PaidAmount = &paid
		}
	}

	mov, err := entity.NewStockMovement(product.MerchantID, product.ID, loc.ID, caller.UserID, entity.MovementStockIn, in.Quantity, now)
	if err != nil {
		return nil, err
	}
	mov.ID = uuid.New().String()
	mov.Reason = receiptReason(in, status)
	mov.ReferenceID = entry.ID
	mov.ReferenceType = entity.ReferenceReceiptEntry

	err = uc.deps.TxRunner.Run(ctx, func(repos LedgerRepos) error {
		if err := repos.Receipts.Create(ctx, entry); err != nil {
			return err
		}
		return repos.Movements.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}

	current := uc.deps.afterCommit(ctx, product, loc.ID, &AuditEvent{
		MerchantID: product.MerchantID,
		UserID:     caller.UserID,
		Action:     AuditStockAdded,
		EntityType: "receipt_entry",
		EntityID:   entry.ID,
		Details: map[string]any{
			"product_id":     product.ID,
			"location_id":    loc.ID,
			"quantity":       in.Quantity,
			"payment_status": string(status),
		},
		At: now,
	})
	return &AddStockResult{Entry: entry, Movement: mov, CurrentStock: current}, nil
}

// validatePayment: montos no negativos y coherentes con el estado.
//   - CREDIT: requiere totalCost; sin pago (paidAmount nil o 0).
//   - PARTIAL: requiere totalCost y 0 < paidAmount < totalCost.
//   - PAID: si vienen ambos montos, paidAmount >= totalCost.
func validatePayment(status entity.PaymentStatus, totalCost, paidAmount *decimal.Decimal) error {
	if totalCost != nil && totalCost.IsNegative() {
		return fmt.Errorf("costo total negativo: %w", domain.ErrInvalidInput)
	}
	if paidAmount != nil && paidAmount.IsNegative() {
		return fmt.Errorf("monto pagado negativo: %w", domain.ErrInvalidInput)
	}
	switch status {
	case entity.PaymentCredit:
		if totalCost == nil {
			return fmt.Errorf("estado CREDIT requiere costo total: %w", domain.ErrInvalidInput)
		}
		if paidAmount != nil && paidAmount.IsPositive() {
			return fmt.Errorf("estado CREDIT no admite monto pagado: %w", domain.ErrInvalidInput)
		}
	case entity.PaymentPartial:
		if totalCost == nil {
			return fmt.Errorf("estado PARTIAL requiere costo total: %w", domain.ErrInvalidInput)
		}
		if paidAmount == nil {
			return fmt.Errorf("estado PARTIAL requiere monto pagado: %w", domain.ErrInvalidInput)
		}
		if !paidAmount.IsPositive() || !paidAmount.LessThan(*totalCost) {
			return fmt.Errorf("estado PARTIAL requiere 0 < pagado < total: %w", domain.ErrInvalidInput)
		}
	case entity.PaymentPaid:
		if totalCost != nil && paidAmount != nil && paidAmount.LessThan(*totalCost) {
			return fmt.Errorf("estado PAID con saldo pendiente: %w", domain.ErrInvalidInput)
		}
	}
	return nil
}

// receiptReason resumen legible para el movimiento de auditoría.
func receiptReason(in AddStockInput, status entity.PaymentStatus) string {
	parts := []string{fmt.Sprintf("Entrada de %d unidades", in.Quantity)}
	if in.BatchNumber != "" {
		parts = append(parts, "lote "+in.BatchNumber)
	}
	if in.SupplierName != "" {
		parts = append(parts, "proveedor "+in.SupplierName)
	}
	if status != entity.PaymentPaid {
		parts = append(parts, "pago "+string(status))
	}
	return strings.Join(parts, ", ")
}
