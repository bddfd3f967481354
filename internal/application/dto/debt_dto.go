package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarkAsPaidRequest body para POST /api/debts/:id/pay. PaidAmount omitido = pago total.
type MarkAsPaidRequest struct {
	PaidAmount *decimal.Decimal `json:"paid_amount,omitempty"`
}

// UnpaidItemDTO entrada con saldo pendiente.
type UnpaidItemDTO struct {
	EntryID         string          `json:"entry_id"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name,omitempty"`
	LocationID      string          `json:"location_id"`
	Quantity        int64           `json:"quantity"`
	SupplierName    string          `json:"supplier_name,omitempty"`
	SupplierContact string          `json:"supplier_contact,omitempty"`
	PaymentStatus   string          `json:"payment_status"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	Outstanding     decimal.Decimal `json:"outstanding"`
	ReceivedDate    time.Time       `json:"received_date"`
	PaymentDueDate  *time.Time      `json:"payment_due_date,omitempty"`
	Overdue         bool            `json:"overdue"`
}

// SupplierDebtDTO deuda agrupada por proveedor.
type SupplierDebtDTO struct {
	SupplierName string          `json:"supplier_name"`
	TotalOwed    decimal.Decimal `json:"total_owed"`
	EntryCount   int             `json:"entry_count"`
}

// DebtSummaryResponse respuesta de GET /api/debts/summary.
type DebtSummaryResponse struct {
	TotalDebt         decimal.Decimal   `json:"total_debt"`
	TotalCredit       decimal.Decimal   `json:"total_credit"`
	TotalPartial      decimal.Decimal   `json:"total_partial"`
	UnpaidItems       []UnpaidItemDTO   `json:"unpaid_items"`
	SupplierBreakdown []SupplierDebtDTO `json:"supplier_breakdown"`
}
