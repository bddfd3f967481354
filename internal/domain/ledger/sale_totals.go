package ledger

import "github.com/shopspring/decimal"

// SaleLine datos de una línea necesarios para los totales.
type SaleLine struct {
	Quantity  int64
	UnitPrice decimal.Decimal
	CostPrice decimal.Decimal
}

// SaleTotals ingresos, costo de ventas, utilidad neta y margen (%) de una venta.
type SaleTotals struct {
	TotalAmount     decimal.Decimal
	CostOfGoodsSold decimal.Decimal
	NetIncome       decimal.Decimal
	ProfitMargin    decimal.Decimal
}

// ComputeSaleTotals calcula:
//
//	total = Σ qty × precio; costo = Σ qty × costo; utilidad = total − costo
//	margen = utilidad / total × 100 (0 si total = 0), redondeado a 2 decimales.
func ComputeSaleTotals(lines []SaleLine) SaleTotals {
	total, cogs := decimal.Zero, decimal.Zero
	for _, l := range lines {
		qty := decimal.NewFromInt(l.Quantity)
		total = total.Add(qty.Mul(l.UnitPrice))
		cogs = cogs.Add(qty.Mul(l.CostPrice))
	}
	net := total.Sub(cogs)
	margin := decimal.Zero
	if !total.IsZero() {
		margin = net.Div(total).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return SaleTotals{
		TotalAmount:     total,
		CostOfGoodsSold: cogs,
		NetIncome:       net,
		ProfitMargin:    margin,
	}
}
