package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// CreateSaleUseCase registra ventas multi-línea de forma atómica: o se registran todas
// las líneas con sus movimientos SALE, o ninguna.
type CreateSaleUseCase struct {
	deps Deps
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(deps Deps) *CreateSaleUseCase {
	return &CreateSaleUseCase{deps: deps.withDefaults()}
}

// SaleItemInput línea de venta.
type SaleItemInput struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// CreateSaleInput entrada de una venta. LocationID vacío = ubicación por defecto.
type CreateSaleInput struct {
	Items         []SaleItemInput
	LocationID    string
	Notes         string
	CustomerName  string
	CustomerPhone string
	SaleDate      *time.Time
}

// CreateSaleResult venta persistida y sus movimientos.
type CreateSaleResult struct {
	Sale      *entity.Sale
	Movements []*entity.StockMovement
	// StockAfter stock resultante por producto en la ubicación de la venta.
	StockAfter map[string]int64
}

// CreateSale valida productos y ubicación, verifica disponibilidad de cada línea bajo
// bloqueo, calcula totales y persiste la venta con un movimiento SALE negativo por línea.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, caller Caller, in CreateSaleInput) (*CreateSaleResult, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("la venta no tiene líneas: %w", domain.ErrInvalidItems)
	}
	for i, item := range in.Items {
		if item.ProductID == "" {
			return nil, fmt.Errorf("línea %d sin producto: %w", i+1, domain.ErrInvalidItems)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("línea %d: %w", i+1, domain.ErrInvalidQuantity)
		}
		if !item.UnitPrice.IsPositive() {
			return nil, fmt.Errorf("línea %d: el precio unitario debe ser mayor a cero: %w", i+1, domain.ErrInvalidInput)
		}
	}

	// 1. Productos: todos deben existir, estar activos y ser de la empresa.
	products, err := uc.loadSaleProducts(ctx, caller, in.Items)
	if err != nil {
		return nil, err
	}

	// 2. Ubicación
	loc, err := uc.deps.resolveLocation(ctx, caller, in.LocationID)
	if err != nil {
		return nil, err
	}

	// 4. Totales y comisión (fuera de la tx: no dependen del stock)
	now := uc.deps.Now()
	saleDate := now
	if in.SaleDate != nil {
		saleDate = *in.SaleDate
	}
	saleID := uuid.New().String()
	lines := make([]ledger.SaleLine, 0, len(in.Items))
	items := make([]entity.SaleItem, 0, len(in.Items))
	requested := make(map[string]int64, len(in.Items))
	for _, item := range in.Items {
		p := products[item.ProductID]
		lines = append(lines, ledger.SaleLine{Quantity: item.Quantity, UnitPrice: item.UnitPrice, CostPrice: p.CostPrice})
		items = append(items, entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    saleID,
			ProductID: p.ID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			ListPrice: p.Price,
			CostPrice: p.CostPrice,
			Subtotal:  decimal.NewFromInt(item.Quantity).Mul(item.UnitPrice),
		})
		requested[p.ID] += item.Quantity
	}
	totals := ledger.ComputeSaleTotals(lines)
	fee, err := uc.deps.Fees.TransactionFee(ctx, totals.TotalAmount, caller.MerchantID)
	if err != nil {
		return nil, fmt.Errorf("calcular comisión de plataforma: %w", err)
	}

	sale := &entity.Sale{
		ID:              saleID,
		MerchantID:      caller.MerchantID,
		LocationID:      loc.ID,
		UserID:          caller.UserID,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		Notes:           in.Notes,
		SaleDate:        saleDate,
		TotalAmount:     totals.TotalAmount,
		CostOfGoodsSold: totals.CostOfGoodsSold,
		NetIncome:       totals.NetIncome,
		ProfitMargin:    totals.ProfitMargin,
		PlatformFee:     fee,
		Items:           items,
		CreatedAt:       now,
	}

	movements := make([]*entity.StockMovement, 0, len(items))
	for _, it := range items {
		mov, err := entity.NewStockMovement(caller.MerchantID, it.ProductID, loc.ID, caller.UserID, entity.MovementSale, -it.Quantity, now)
		if err != nil {
			return nil, err
		}
		mov.ID = uuid.New().String()
		mov.Reason = fmt.Sprintf("Venta de %d unidades", it.Quantity)
		mov.ReferenceID = saleID
		mov.ReferenceType = entity.ReferenceSale
		movements = append(movements, mov)
	}

	productIDs := make([]string, 0, len(requested))
	keys := make([]repository.StockKey, 0, len(requested))
	for id := range requested {
		productIDs = append(productIDs, id)
		keys = append(keys, repository.StockKey{ProductID: id, LocationID: loc.ID})
	}
	sort.Strings(productIDs)

	// 3 + 5. Bloqueo, verificación de todas las líneas y escritura en la misma transacción.
	err = uc.deps.TxRunner.Run(ctx, func(repos LedgerRepos) error {
		if err := repos.Stock.Lock(ctx, repository.SortStockKeys(keys)...); err != nil {
			return err
		}
		for _, id := range productIDs {
			if _, err := uc.deps.ensureAvailable(ctx, repos.Stock, products[id], loc.ID, requested[id], false); err != nil {
				return err
			}
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		for _, mov := range movements {
			if err := repos.Movements.Create(ctx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 6. Post-commit: umbrales y auditoría
	after := make(map[string]int64, len(productIDs))
	for _, id := range productIDs {
		after[id] = uc.deps.checkLowStock(ctx, products[id], loc.ID)
	}
	uc.deps.Audit.Record(ctx, AuditEvent{
		MerchantID: caller.MerchantID,
		UserID:     caller.UserID,
		Action:     AuditSaleCreated,
		EntityType: "sale",
		EntityID:   saleID,
		Details: map[string]any{
			"location_id":  loc.ID,
			"lines":        len(items),
			"total_amount": totals.TotalAmount.String(),
		},
		At: now,
	})
	return &CreateSaleResult{Sale: sale, Movements: movements, StockAfter: after}, nil
}

// loadSaleProducts carga los productos de la venta. Faltantes, inactivos o de otra empresa => ErrInvalidItems.
func (uc *CreateSaleUseCase) loadSaleProducts(ctx context.Context, caller Caller, items []SaleItemInput) (map[string]*entity.Product, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	list, err := uc.deps.Products.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("cargar productos: %w", err)
	}
	byID := make(map[string]*entity.Product, len(list))
	for _, p := range list {
		byID[p.ID] = p
	}
	var invalid []string
	for _, id := range ids {
		p, ok := byID[id]
		if !ok || !p.IsActive || !uc.deps.Access.HasAccess(ctx, caller, p.MerchantID) {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidItems, strings.Join(invalid, ", "))
	}
	return byID, nil
}
