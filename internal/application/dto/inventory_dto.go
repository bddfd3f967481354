package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddStockRequest body para POST /api/inventory/stock.
type AddStockRequest struct {
	ProductID       string           `json:"product_id" validate:"required"`
	LocationID      string           `json:"location_id,omitempty"` // vacío = ubicación por defecto
	Quantity        int64            `json:"quantity" validate:"gt=0"`
	BatchNumber     string           `json:"batch_number,omitempty" validate:"max=100"`
	ExpirationDate  *Date            `json:"expiration_date,omitempty"`
	ReceivedDate    *Date            `json:"received_date,omitempty"`
	Notes           string           `json:"notes,omitempty" validate:"max=500"`
	PaymentStatus   string           `json:"payment_status,omitempty" validate:"omitempty,oneof=PAID CREDIT PARTIAL"`
	SupplierName    string           `json:"supplier_name,omitempty" validate:"max=200"`
	SupplierContact string           `json:"supplier_contact,omitempty" validate:"max=200"`
	TotalCost       *decimal.Decimal `json:"total_cost,omitempty"`
	PaidAmount      *decimal.Decimal `json:"paid_amount,omitempty"`
	PaymentDueDate  *Date            `json:"payment_due_date,omitempty"`
}

// SaleItemRequest línea de venta.
type SaleItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest body para POST /api/inventory/sales.
type CreateSaleRequest struct {
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	LocationID    string            `json:"location_id,omitempty"`
	Notes         string            `json:"notes,omitempty" validate:"max=500"`
	CustomerName  string            `json:"customer_name,omitempty" validate:"max=200"`
	CustomerPhone string            `json:"customer_phone,omitempty" validate:"max=50"`
	SaleDate      *Date             `json:"sale_date,omitempty"`
}

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	ProductID      string `json:"product_id" validate:"required"`
	FromLocationID string `json:"from_location_id"`
	ToLocationID   string `json:"to_location_id"`
	Quantity       int64  `json:"quantity" validate:"gt=0"`
	Notes          string `json:"notes,omitempty" validate:"max=500"`
}

// AdjustStockRequest body para POST /api/inventory/adjustments.
// Quantity con signo: negativo descuenta (solo ADJUSTMENT).
type AdjustStockRequest struct {
	ProductID     string `json:"product_id" validate:"required"`
	LocationID    string `json:"location_id,omitempty"`
	Type          string `json:"type" validate:"required,oneof=ADJUSTMENT RESTOCK RETURN"`
	Quantity      int64  `json:"quantity" validate:"ne=0"`
	Reason        string `json:"reason,omitempty" validate:"max=500"`
	ReferenceID   string `json:"reference_id,omitempty"`
	ReferenceType string `json:"reference_type,omitempty"`
	Correction    bool   `json:"correction,omitempty"`
}

// ReceiptEntryDTO entrada de stock en respuestas.
type ReceiptEntryDTO struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"product_id"`
	LocationID      string           `json:"location_id"`
	Quantity        int64            `json:"quantity"`
	BatchNumber     string           `json:"batch_number,omitempty"`
	ExpirationDate  *time.Time       `json:"expiration_date,omitempty"`
	ReceivedDate    time.Time        `json:"received_date"`
	Notes           string           `json:"notes,omitempty"`
	AddedBy         string           `json:"added_by"`
	PaymentStatus   string           `json:"payment_status"`
	SupplierName    string           `json:"supplier_name,omitempty"`
	SupplierContact string           `json:"supplier_contact,omitempty"`
	TotalCost       *decimal.Decimal `json:"total_cost,omitempty"`
	PaidAmount      *decimal.Decimal `json:"paid_amount,omitempty"`
	PaymentDueDate  *time.Time       `json:"payment_due_date,omitempty"`
	PaidAt          *time.Time       `json:"paid_at,omitempty"`
}

// StockMovementDTO movimiento en respuestas.
type StockMovementDTO struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	LocationID    string    `json:"location_id"`
	UserID        string    `json:"user_id"`
	Type          string    `json:"type"`
	Quantity      int64     `json:"quantity"`
	Reason        string    `json:"reason,omitempty"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	ReferenceType string    `json:"reference_type,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// AddStockResponse respuesta de POST /api/inventory/stock.
type AddStockResponse struct {
	Entry        ReceiptEntryDTO  `json:"entry"`
	Movement     StockMovementDTO `json:"movement"`
	CurrentStock int64            `json:"current_stock"`
}

// SaleItemDTO línea de venta en respuestas.
type SaleItemDTO struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ListPrice decimal.Decimal `json:"list_price"`
	CostPrice decimal.Decimal `json:"cost_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse respuesta de POST /api/inventory/sales.
type SaleResponse struct {
	ID              string           `json:"id"`
	LocationID      string           `json:"location_id"`
	CustomerName    string           `json:"customer_name,omitempty"`
	CustomerPhone   string           `json:"customer_phone,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	SaleDate        time.Time        `json:"sale_date"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	CostOfGoodsSold decimal.Decimal  `json:"cost_of_goods_sold"`
	NetIncome       decimal.Decimal  `json:"net_income"`
	ProfitMargin    decimal.Decimal  `json:"profit_margin"`
	PlatformFee     decimal.Decimal  `json:"platform_fee"`
	Items           []SaleItemDTO    `json:"items"`
	StockAfter      map[string]int64 `json:"stock_after"`
}

// TransferResponse respuesta de POST /api/inventory/transfers.
type TransferResponse struct {
	OutMovement      StockMovementDTO `json:"out_movement"`
	InMovement       StockMovementDTO `json:"in_movement"`
	DestinationEntry ReceiptEntryDTO  `json:"destination_entry"`
	SourceStock      int64            `json:"source_stock"`
	DestinationStock int64            `json:"destination_stock"`
}

// AdjustStockResponse respuesta de POST /api/inventory/adjustments.
type AdjustStockResponse struct {
	Movement     StockMovementDTO `json:"movement"`
	CurrentStock int64            `json:"current_stock"`
}

// StockResponse stock derivado de un producto.
type StockResponse struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id,omitempty"` // vacío = todas las ubicaciones
	Stock      int64  `json:"stock"`
}

// StockBatchResponse stock de varios productos en una ubicación.
// OmittedProductIDs lista los ids pedidos que no existen o no pertenecen a la empresa.
type StockBatchResponse struct {
	LocationID        string           `json:"location_id,omitempty"`
	Stock             map[string]int64 `json:"stock"`
	OmittedProductIDs []string         `json:"omitted_product_ids,omitempty"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto en o bajo su umbral.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	CurrentStock       int64           `json:"current_stock"`
	Threshold          int64           `json:"threshold"`
	IdealStock         int64           `json:"ideal_stock"`         // ceil(Threshold * 1.5)
	SuggestedOrderQty  int64           `json:"suggested_order_qty"` // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	Priority           int             `json:"priority"` // 1 = más urgente
}

// InsufficientStockResponse detalle del faltante en errores 400.
type InsufficientStockResponse struct {
	ErrorResponse
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Available  int64  `json:"available"`
	Requested  int64  `json:"requested"`
	Breakdown  string `json:"breakdown,omitempty"`
}
