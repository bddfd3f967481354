package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/shopspring/decimal"
)

// Deps colaboradores compartidos por los casos de uso del ledger.
// Stock, Receipts y Movements se usan para lecturas fuera de transacción.
type Deps struct {
	TxRunner  TxRunner
	Products  repository.ProductRepository
	Locations repository.LocationRepository
	Stock     repository.StockRepository
	Receipts  repository.ReceiptEntryRepository
	Movements repository.StockMovementRepository

	Access   AccessChecker
	Fees     FeeCalculator
	Notifier Notifier
	Audit    AuditSink
	Log      *logger.Logger
	Now      func() time.Time

	// DefaultLowStockThreshold se usa cuando el producto no define umbral (0 = sin alerta).
	DefaultLowStockThreshold int64
}

func (d Deps) withDefaults() Deps {
	if d.Access == nil {
		d.Access = SameMerchant{}
	}
	if d.Fees == nil {
		d.Fees = noFee{}
	}
	if d.Notifier == nil {
		d.Notifier = noNotifier{}
	}
	if d.Audit == nil {
		d.Audit = noAudit{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

type noFee struct{}

func (noFee) TransactionFee(context.Context, decimal.Decimal, string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type noNotifier struct{}

func (noNotifier) LowStockAlert(context.Context, LowStockAlert) error { return nil }

type noAudit struct{}

func (noAudit) Record(context.Context, AuditEvent) {}

// loadProduct valida que el producto exista y pertenezca a la empresa del caller.
func (d Deps) loadProduct(ctx context.Context, caller Caller, productID string) (*entity.Product, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := d.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("cargar producto: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrProductNotFound)
	}
	if !d.Access.HasAccess(ctx, caller, product.MerchantID) {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

// resolveLocation carga la ubicación indicada o, si viene vacía, la ubicación por defecto de la empresa.
func (d Deps) resolveLocation(ctx context.Context, caller Caller, locationID string) (*entity.Location, error) {
	var (
		loc *entity.Location
		err error
	)
	if locationID == "" {
		loc, err = d.Locations.GetDefault(ctx, caller.MerchantID)
	} else {
		loc, err = d.Locations.GetByID(ctx, locationID)
	}
	if err != nil {
		return nil, fmt.Errorf("cargar ubicación: %w", err)
	}
	if loc == nil {
		if locationID == "" {
			return nil, fmt.Errorf("la empresa no tiene ubicación por defecto: %w", domain.ErrLocationNotFound)
		}
		return nil, fmt.Errorf("ubicación %s: %w", locationID, domain.ErrLocationNotFound)
	}
	if !d.Access.HasAccess(ctx, caller, loc.MerchantID) {
		return nil, domain.ErrForbidden
	}
	return loc, nil
}

// ensureAvailable lee el stock dentro de la transacción (tras Lock) y falla si no
// alcanza. Stock negativo bloquea siempre la salida y se registra como advertencia de integridad.
func (d Deps) ensureAvailable(
	ctx context.Context,
	stock repository.StockRepository,
	product *entity.Product,
	locationID string,
	requested int64,
	withBreakdown bool,
) (int64, error) {
	tally, err := stock.Tally(ctx, product.MerchantID, product.ID, locationID)
	if err != nil {
		return 0, fmt.Errorf("calcular stock: %w", err)
	}
	available := tally.Stock()
	if available < 0 {
		d.warnIntegrity(product.ID, locationID, tally)
	}
	if available < 0 || available < requested {
		e := &ledger.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			LocationID:  locationID,
			Available:   available,
			Requested:   requested,
		}
		if withBreakdown || available < 0 {
			e.Breakdown = tally.Breakdown()
		}
		return available, e
	}
	return available, nil
}

func (d Deps) warnIntegrity(productID, locationID string, tally ledger.Tally) {
	werr := &ledger.IntegrityWarningError{
		ProductID:  productID,
		LocationID: locationID,
		Stock:      tally.Stock(),
		Breakdown:  tally.Breakdown(),
	}
	d.Log.Warn().Err(werr).
		Str("product_id", productID).
		Str("location_id", locationID).
		Int64("stock", werr.Stock).
		Msg("integridad del ledger: stock negativo")
}

// afterCommit revisa el umbral de stock bajo y registra auditoría. Nunca falla:
// los errores de notificación se registran y se descartan.
func (d Deps) afterCommit(ctx context.Context, product *entity.Product, locationID string, event *AuditEvent) int64 {
	current := d.checkLowStock(ctx, product, locationID)
	if event != nil {
		d.Audit.Record(ctx, *event)
	}
	return current
}

// checkLowStock recalcula el stock (fuera de la tx) y dispara la alerta si quedó en o bajo el umbral.
func (d Deps) checkLowStock(ctx context.Context, product *entity.Product, locationID string) int64 {
	tally, err := d.Stock.Tally(ctx, product.MerchantID, product.ID, locationID)
	if err != nil {
		d.Log.Error().Err(err).Str("product_id", product.ID).Msg("recalcular stock tras commit")
		return 0
	}
	current := tally.Stock()
	if current < 0 {
		d.warnIntegrity(product.ID, locationID, tally)
	}
	threshold := d.thresholdFor(product)
	if threshold <= 0 || current > threshold {
		return current
	}
	alert := LowStockAlert{
		MerchantID:   product.MerchantID,
		ProductID:    product.ID,
		ProductName:  product.Name,
		SKU:          product.SKU,
		LocationID:   locationID,
		CurrentStock: current,
		Threshold:    threshold,
		At:           d.Now(),
	}
	if err := d.Notifier.LowStockAlert(ctx, alert); err != nil {
		d.Log.Warn().Err(err).
			Str("product_id", product.ID).
			Str("location_id", locationID).
			Msg("alerta de stock bajo no enviada")
	}
	return current
}

func (d Deps) thresholdFor(product *entity.Product) int64 {
	if product.LowStockThreshold > 0 {
		return product.LowStockThreshold
	}
	return d.DefaultLowStockThreshold
}
