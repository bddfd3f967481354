package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// LedgerRepos repositorios atados a una misma transacción.
type LedgerRepos struct {
	Receipts  repository.ReceiptEntryRepository
	Movements repository.StockMovementRepository
	Stock     repository.StockRepository
	Sales     repository.SaleRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn retorna nil, Rollback en cualquier otro caso. Nunca reintenta.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos LedgerRepos) error) error
}

// Caller identidad de quien invoca la operación (derivada del token).
type Caller struct {
	UserID     string
	MerchantID string
	Role       string
}

// AccessChecker decide si el caller puede operar sobre los datos de una empresa.
type AccessChecker interface {
	HasAccess(ctx context.Context, caller Caller, merchantID string) bool
}

// SameMerchant política por defecto: solo la propia empresa.
type SameMerchant struct{}

// HasAccess implementa AccessChecker.
func (SameMerchant) HasAccess(_ context.Context, caller Caller, merchantID string) bool {
	return caller.MerchantID != "" && caller.MerchantID == merchantID
}

// FeeCalculator calcula la comisión de plataforma sobre el total de una venta.
type FeeCalculator interface {
	TransactionFee(ctx context.Context, amount decimal.Decimal, merchantID string) (decimal.Decimal, error)
}

// LowStockAlert datos de una alerta de stock bajo.
type LowStockAlert struct {
	MerchantID   string    `json:"merchant_id"`
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name"`
	SKU          string    `json:"sku,omitempty"`
	LocationID   string    `json:"location_id"`
	CurrentStock int64     `json:"current_stock"`
	Threshold    int64     `json:"threshold"`
	At           time.Time `json:"at"`
}

// Notifier entrega alertas de stock bajo. Las fallas no son fatales para la operación.
type Notifier interface {
	LowStockAlert(ctx context.Context, alert LowStockAlert) error
}

// AuditEvent evento de auditoría de una operación de stock.
type AuditEvent struct {
	MerchantID string
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	Details    map[string]any
	At         time.Time
}

// Acciones de auditoría.
const (
	AuditStockAdded     = "stock.added"
	AuditSaleCreated    = "sale.created"
	AuditStockTransfer  = "stock.transferred"
	AuditStockAdjusted  = "stock.adjusted"
	AuditDebtSettlement = "debt.settled"
)

// AuditSink registra eventos de auditoría (fire-and-forget).
type AuditSink interface {
	Record(ctx context.Context, event AuditEvent)
}

// StatementRenderer genera el estado de cuenta de deudas con proveedores (PDF).
type StatementRenderer interface {
	RenderDebtStatement(ctx context.Context, merchantID string, summary ledger.DebtSummary, generatedAt time.Time) ([]byte, error)
}
