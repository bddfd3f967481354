package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: una empresa con dos ubicaciones y dos productos, más una empresa ajena.
// ──────────────────────────────────────────────────────────────────────────────

const (
	merchantID      = "m-1"
	otherMerchantID = "m-2"
	userID          = "u-1"

	locL1      = "loc-1" // ubicación por defecto
	locL2      = "loc-2"
	locForeign = "loc-x"

	prodP       = "prod-p" // umbral 5
	prodQ       = "prod-q" // sin umbral propio
	prodInact   = "prod-inactive"
	prodForeign = "prod-x"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []inventory.LowStockAlert
	err    error
}

func (n *recordingNotifier) LowStockAlert(_ context.Context, a inventory.LowStockAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, a)
	return n.err
}

func (n *recordingNotifier) Alerts() []inventory.LowStockAlert {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]inventory.LowStockAlert(nil), n.alerts...)
}

type recordingAudit struct {
	mu     sync.Mutex
	events []inventory.AuditEvent
}

func (a *recordingAudit) Record(_ context.Context, e inventory.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) Actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Action)
	}
	return out
}

type flatFee struct{ rate decimal.Decimal }

func (f flatFee) TransactionFee(_ context.Context, amount decimal.Decimal, _ string) (decimal.Decimal, error) {
	return amount.Mul(f.rate).Round(2), nil
}

type stubRenderer struct {
	summary ledger.DebtSummary
}

func (r *stubRenderer) RenderDebtStatement(_ context.Context, _ string, s ledger.DebtSummary, _ time.Time) ([]byte, error) {
	r.summary = s
	return []byte("%PDF-stub"), nil
}

type fixture struct {
	store    *memory.Store
	deps     inventory.Deps
	notifier *recordingNotifier
	audit    *recordingAudit
	caller   inventory.Caller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.PutLocation(&entity.Location{ID: locL1, MerchantID: merchantID, Name: "Tienda Centro", IsDefault: true})
	store.PutLocation(&entity.Location{ID: locL2, MerchantID: merchantID, Name: "Bodega Norte"})
	store.PutLocation(&entity.Location{ID: locForeign, MerchantID: otherMerchantID, Name: "Ajena", IsDefault: true})
	store.PutProduct(&entity.Product{
		ID: prodP, MerchantID: merchantID, SKU: "P-001", Name: "Café 500g",
		Price: decimal.NewFromInt(10), CostPrice: decimal.NewFromInt(6),
		LowStockThreshold: 5, IsActive: true,
	})
	store.PutProduct(&entity.Product{
		ID: prodQ, MerchantID: merchantID, SKU: "Q-001", Name: "Azúcar 1kg",
		Price: decimal.NewFromInt(4), CostPrice: decimal.NewFromInt(3), IsActive: true,
	})
	store.PutProduct(&entity.Product{ID: prodInact, MerchantID: merchantID, SKU: "I-001", Name: "Descontinuado"})
	store.PutProduct(&entity.Product{ID: prodForeign, MerchantID: otherMerchantID, SKU: "X-001", Name: "Ajeno", IsActive: true})

	notifier := &recordingNotifier{}
	audit := &recordingAudit{}
	deps := inventory.Deps{
		TxRunner:  store,
		Products:  store.Products(),
		Locations: store.Locations(),
		Stock:     store.Stock(),
		Receipts:  store.Receipts(),
		Movements: store.Movements(),
		Fees:      flatFee{rate: decimal.RequireFromString("0.02")},
		Notifier:  notifier,
		Audit:     audit,
		Log:       logger.Nop(),
		Now:       func() time.Time { return fixedNow },
	}
	return &fixture{
		store:    store,
		deps:     deps,
		notifier: notifier,
		audit:    audit,
		caller:   inventory.Caller{UserID: userID, MerchantID: merchantID, Role: inventory.RoleAdmin},
	}
}

func (f *fixture) addStock(t *testing.T, productID, locationID string, qty int64) *inventory.AddStockResult {
	t.Helper()
	res, err := inventory.NewAddStockUseCase(f.deps).AddStock(context.Background(), f.caller, inventory.AddStockInput{
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   qty,
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) stock(t *testing.T, productID, locationID string) int64 {
	t.Helper()
	n, err := inventory.NewStockQueryUseCase(f.deps).CurrentStock(context.Background(), f.caller, productID, locationID)
	require.NoError(t, err)
	return n
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

var errBoom = errors.New("boom")
