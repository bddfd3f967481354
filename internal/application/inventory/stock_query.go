package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// StockQueryUseCase lecturas del ledger: stock derivado, historial de movimientos y entradas.
type StockQueryUseCase struct {
	deps Deps
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(deps Deps) *StockQueryUseCase {
	return &StockQueryUseCase{deps: deps.withDefaults()}
}

// CurrentStock devuelve el stock derivado; locationID vacío = todas las ubicaciones.
// Un valor negativo se devuelve tal cual y se registra como advertencia de integridad.
func (uc *StockQueryUseCase) CurrentStock(ctx context.Context, caller Caller, productID, locationID string) (int64, error) {
	product, err := uc.deps.loadProduct(ctx, caller, productID)
	if err != nil {
		return 0, err
	}
	if locationID != "" {
		if _, err := uc.deps.resolveLocation(ctx, caller, locationID); err != nil {
			return 0, err
		}
	}
	tally, err := uc.deps.Stock.Tally(ctx, product.MerchantID, product.ID, locationID)
	if err != nil {
		return 0, fmt.Errorf("calcular stock: %w", err)
	}
	stock := tally.Stock()
	if stock < 0 {
		uc.deps.warnIntegrity(product.ID, locationID, tally)
	}
	return stock, nil
}

// CurrentStockBatch calcula el stock de varios productos en una ubicación con una sola
// lectura agregada. Cada valor es idéntico al de CurrentStock para el mismo producto.
//
// A diferencia de CurrentStock, que falla con ErrNotFound o ErrForbidden, los productos
// inexistentes o de otra empresa no producen error: se omiten del mapa sin distinguir
// la causa. El llamador detecta los omitidos comparando las claves con productIDs.
func (uc *StockQueryUseCase) CurrentStockBatch(ctx context.Context, caller Caller, productIDs []string, locationID string) (map[string]int64, error) {
	result := make(map[string]int64, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}
	if locationID != "" {
		if _, err := uc.deps.resolveLocation(ctx, caller, locationID); err != nil {
			return nil, err
		}
	}
	products, err := uc.deps.Products.ListByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("cargar productos: %w", err)
	}
	ids := make([]string, 0, len(products))
	for _, p := range products {
		if uc.deps.Access.HasAccess(ctx, caller, p.MerchantID) {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) == 0 {
		return result, nil
	}
	tallies, err := uc.deps.Stock.TallyBatch(ctx, caller.MerchantID, ids, locationID)
	if err != nil {
		return nil, fmt.Errorf("calcular stock por lote: %w", err)
	}
	for _, id := range ids {
		t := tallies[id]
		result[id] = t.Stock()
		if result[id] < 0 {
			uc.deps.warnIntegrity(id, locationID, t)
		}
	}
	return result, nil
}

// MovementQuery filtros de historial expuestos a la API.
type MovementQuery struct {
	ProductID  string
	LocationID string
	Types      []string
	From, To   *time.Time
	Limit      int
	Offset     int
}

// ListMovements historial de movimientos de la empresa del caller, más recientes primero.
func (uc *StockQueryUseCase) ListMovements(ctx context.Context, caller Caller, q MovementQuery) ([]*entity.StockMovement, error) {
	if caller.MerchantID == "" {
		return nil, domain.ErrForbidden
	}
	types := make([]entity.MovementType, 0, len(q.Types))
	for _, s := range q.Types {
		t, err := entity.ParseMovementType(s)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return nil, fmt.Errorf("rango de fechas inválido: %w", domain.ErrInvalidInput)
	}
	limit, offset := clampPage(q.Limit, q.Offset)
	return uc.deps.Movements.List(ctx, repository.MovementFilter{
		MerchantID: caller.MerchantID,
		ProductID:  q.ProductID,
		LocationID: q.LocationID,
		Types:      types,
		From:       q.From,
		To:         q.To,
		Limit:      limit,
		Offset:     offset,
	})
}

// ReceiptQuery filtros de entradas. ExpiringWithinDays > 0 limita a lotes que vencen en ese plazo.
type ReceiptQuery struct {
	ProductID          string
	LocationID         string
	PaymentStatuses    []string
	ExpiringWithinDays int
	Limit              int
	Offset             int
}

// ListReceipts lista entradas de stock (trazabilidad de lotes y vencimientos).
func (uc *StockQueryUseCase) ListReceipts(ctx context.Context, caller Caller, q ReceiptQuery) ([]*entity.ReceiptEntry, error) {
	if caller.MerchantID == "" {
		return nil, domain.ErrForbidden
	}
	statuses := make([]entity.PaymentStatus, 0, len(q.PaymentStatuses))
	for _, s := range q.PaymentStatuses {
		st, err := entity.ParsePaymentStatus(s)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, st)
	}
	if q.ExpiringWithinDays < 0 {
		return nil, fmt.Errorf("expiring_within_days negativo: %w", domain.ErrInvalidInput)
	}
	var before *time.Time
	if q.ExpiringWithinDays > 0 {
		t := uc.deps.Now().AddDate(0, 0, q.ExpiringWithinDays)
		before = &t
	}
	limit, offset := clampPage(q.Limit, q.Offset)
	return uc.deps.Receipts.List(ctx, repository.ReceiptFilter{
		MerchantID:     caller.MerchantID,
		ProductID:      q.ProductID,
		LocationID:     q.LocationID,
		Statuses:       statuses,
		ExpiringBefore: before,
		Limit:          limit,
		Offset:         offset,
	})
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
