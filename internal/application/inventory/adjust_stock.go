package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Roles que pueden ajustar inventario.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
)

// AdjustStockUseCase registra ajustes, reposiciones y devoluciones (un movimiento, sin entrada).
type AdjustStockUseCase struct {
	deps Deps
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(deps Deps) *AdjustStockUseCase {
	return &AdjustStockUseCase{deps: deps.withDefaults()}
}

// AdjustStockInput entrada de un ajuste. Quantity con signo.
// Correction permite registrar una salida aunque el stock ya sea insuficiente
// (corrección de una deriva negativa conocida).
type AdjustStockInput struct {
	ProductID     string
	LocationID    string
	Type          string
	Quantity      int64
	Reason        string
	ReferenceID   string
	ReferenceType string
	Correction    bool
}

// AdjustStockResult movimiento creado y stock resultante.
type AdjustStockResult struct {
	Movement     *entity.StockMovement
	CurrentStock int64
}

// AdjustStock valida tipo y signo; las cantidades negativas se revalidan contra el stock
// bajo bloqueo salvo que sean correcciones.
func (uc *AdjustStockUseCase) AdjustStock(ctx context.Context, caller Caller, in AdjustStockInput) (*AdjustStockResult, error) {
	typ, err := entity.ParseMovementType(in.Type)
	if err != nil {
		return nil, err
	}
	switch typ {
	case entity.MovementAdjustment, entity.MovementRestock, entity.MovementReturn:
	default:
		return nil, fmt.Errorf("tipo %s no permitido en ajustes: %w", typ, domain.ErrInvalidInput)
	}
	if !typ.ValidSign(in.Quantity) {
		return nil, fmt.Errorf("cantidad %d inválida para %s: %w", in.Quantity, typ, domain.ErrInvalidQuantity)
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
	mov, err := entity.NewStockMovement(product.MerchantID, product.ID, loc.ID, caller.UserID, typ, in.Quantity, now)
	if err != nil {
		return nil, err
	}
	mov.ID = uuid.New().String()
	mov.Reason = in.Reason
	if mov.Reason == "" {
		mov.Reason = fmt.Sprintf("%s de %+d unidades", typ, in.Quantity)
	}
	mov.ReferenceID = in.ReferenceID
	mov.ReferenceType = in.ReferenceType

	err = uc.deps.TxRunner.Run(ctx, func(repos LedgerRepos) error {
		if in.Quantity < 0 && !in.Correction {
			if err := repos.Stock.Lock(ctx, repository.StockKey{ProductID: product.ID, LocationID: loc.ID}); err != nil {
				return err
			}
			if _, err := uc.deps.ensureAvailable(ctx, repos.Stock, product, loc.ID, -in.Quantity, false); err != nil {
				return err
			}
		}
		return repos.Movements.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}

	current := uc.deps.afterCommit(ctx, product, loc.ID, &AuditEvent{
		MerchantID: product.MerchantID,
		UserID:     caller.UserID,
		Action:     AuditStockAdjusted,
		EntityType: "stock_movement",
		EntityID:   mov.ID,
		Details: map[string]any{
			"product_id":  product.ID,
			"location_id": loc.ID,
			"type":        string(typ),
			"quantity":    in.Quantity,
			"correction":  in.Correction,
		},
		At: now,
	})
	return &AdjustStockResult{Movement: mov, CurrentStock: current}, nil
}
