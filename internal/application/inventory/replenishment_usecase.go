package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ReplenishmentSuggestion producto en o bajo su umbral con la cantidad sugerida de pedido.
type ReplenishmentSuggestion struct {
	ProductID          string
	SKU                string
	ProductName        string
	CurrentStock       int64
	Threshold          int64
	IdealStock         int64
	SuggestedOrderQty  int64
	UnitCost           decimal.Decimal
	EstimatedOrderCost decimal.Decimal
	Priority           int
}

// ReplenishmentUseCase genera la lista de reposición de una ubicación a partir del stock derivado.
type ReplenishmentUseCase struct {
	deps Deps
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(deps Deps) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{deps: deps.withDefaults()}
}

// GenerateReplenishmentList devuelve los productos activos en o bajo su umbral de stock bajo.
// locationID vacío = stock global de la empresa.
// Stock ideal = umbral * 1.5; prioridad por mayor déficit respecto al umbral.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, caller Caller, locationID string) ([]ReplenishmentSuggestion, error) {
	if locationID != "" {
		if _, err := uc.deps.resolveLocation(ctx, caller, locationID); err != nil {
			return nil, err
		}
	}
	products, err := uc.deps.Products.ListActiveByMerchant(ctx, caller.MerchantID)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	if len(products) == 0 {
		return []ReplenishmentSuggestion{}, nil
	}
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	tallies, err := uc.deps.Stock.TallyBatch(ctx, caller.MerchantID, ids, locationID)
	if err != nil {
		return nil, fmt.Errorf("calcular stock por lote: %w", err)
	}

	ratio := decimal.NewFromFloat(1.5)
	suggestions := make([]ReplenishmentSuggestion, 0)
	for _, p := range products {
		threshold := uc.deps.thresholdFor(p)
		if threshold <= 0 {
			continue
		}
		current := tallies[p.ID].Stock()
		if current > threshold {
			continue
		}
		ideal := decimal.NewFromInt(threshold).Mul(ratio).Ceil().IntPart()
		qty := ideal - current
		if qty < 0 {
			qty = 0
		}
		suggestions = append(suggestions, ReplenishmentSuggestion{
			ProductID:          p.ID,
			SKU:                p.SKU,
			ProductName:        p.Name,
			CurrentStock:       current,
			Threshold:          threshold,
			IdealStock:         ideal,
			SuggestedOrderQty:  qty,
			UnitCost:           p.CostPrice,
			EstimatedOrderCost: p.CostPrice.Mul(decimal.NewFromInt(qty)),
		})
	}

	// Mayor déficit primero; empate: mayor costo estimado, luego SKU.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		defA, defB := a.Threshold-a.CurrentStock, b.Threshold-b.CurrentStock
		if defA != defB {
			return defA > defB
		}
		if !a.EstimatedOrderCost.Equal(b.EstimatedOrderCost) {
			return a.EstimatedOrderCost.GreaterThan(b.EstimatedOrderCost)
		}
		return a.SKU < b.SKU
	})

	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
