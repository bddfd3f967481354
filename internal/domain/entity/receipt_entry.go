package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// PaymentStatus estado de pago al proveedor de una entrada de stock.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "PAID"
	PaymentCredit  PaymentStatus = "CREDIT"
	PaymentPartial PaymentStatus = "PARTIAL"
)

// ParsePaymentStatus convierte un string al estado cerrado. Vacío = PAID.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case "":
		return PaymentPaid, nil
	case PaymentPaid, PaymentCredit, PaymentPartial:
		return PaymentStatus(s), nil
	}
	return "", fmt.Errorf("estado de pago %q: %w", s, domain.ErrInvalidInput)
}

// ReceiptEntry registro inmutable de stock recibido físicamente en una ubicación.
// Solo los campos de pago cambian (liquidación de deuda); cantidad, producto y ubicación nunca.
type ReceiptEntry struct {
	ID              string
	MerchantID      string
	ProductID       string
	LocationID      string
	Quantity        int64
	BatchNumber     string
	ExpirationDate  *time.Time
	ReceivedDate    time.Time
	Notes           string
	AddedBy         string
	PaymentStatus   PaymentStatus
	SupplierName    string
	SupplierContact string
	TotalCost       *decimal.Decimal
	PaidAmount      *decimal.Decimal
	PaymentDueDate  *time.Time
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Outstanding saldo pendiente con el proveedor: totalCost - paidAmount (mínimo 0).
func (e *ReceiptEntry) Outstanding() decimal.Decimal {
	total := decimal.Zero
	if e.TotalCost != nil {
		total = *e.TotalCost
	}
	paid := decimal.Zero
	if e.PaidAmount != nil {
		paid = *e.PaidAmount
	}
	out := total.Sub(paid)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}
