// Package fees calcula la comisión de plataforma por venta.
package fees

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/shopspring/decimal"
)

var _ inventory.FeeCalculator = (*Calculator)(nil)

var hundred = decimal.NewFromInt(100)

// Calculator comisión = total * porcentaje/100 + fijo, redondeada a 2 decimales y nunca mayor al total.
type Calculator struct {
	percent decimal.Decimal
	fixed   decimal.Decimal
}

// New construye el calculador desde la configuración (strings decimales, vacío = 0).
func New(percent, fixed string) (*Calculator, error) {
	p, err := parse(percent)
	if err != nil {
		return nil, fmt.Errorf("porcentaje de comisión: %w", err)
	}
	f, err := parse(fixed)
	if err != nil {
		return nil, fmt.Errorf("comisión fija: %w", err)
	}
	if p.IsNegative() || f.IsNegative() || p.GreaterThan(hundred) {
		return nil, fmt.Errorf("comisión fuera de rango: %s%% + %s", p, f)
	}
	return &Calculator{percent: p, fixed: f}, nil
}

func parse(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// TransactionFee implementa inventory.FeeCalculator.
func (c *Calculator) TransactionFee(_ context.Context, amount decimal.Decimal, _ string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, nil
	}
	fee := amount.Mul(c.percent).Div(hundred).Add(c.fixed).Round(2)
	if fee.GreaterThan(amount) {
		fee = amount
	}
	return fee, nil
}
