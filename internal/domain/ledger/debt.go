package ledger

import (
	"sort"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// UnknownSupplier agrupa las entradas sin nombre de proveedor.
const UnknownSupplier = "Sin proveedor"

// MoneyScale decimales con que se persisten costos y pagos (NUMERIC(18,2)).
const MoneyScale = 2

// RoundMoney copia de d redondeada a MoneyScale; nil se conserva.
func RoundMoney(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	r := d.Round(MoneyScale)
	return &r
}

// UnpaidItem entrada de stock con saldo pendiente.
type UnpaidItem struct {
	EntryID         string
	ProductID       string
	ProductName     string
	LocationID      string
	Quantity        int64
	SupplierName    string
	SupplierContact string
	PaymentStatus   entity.PaymentStatus
	TotalCost       decimal.Decimal
	PaidAmount      decimal.Decimal
	Outstanding     decimal.Decimal
	ReceivedDate    time.Time
	PaymentDueDate  *time.Time
	Overdue         bool
}

// SupplierDebt total adeudado a un proveedor.
type SupplierDebt struct {
	SupplierName string
	TotalOwed    decimal.Decimal
	EntryCount   int
}

// DebtSummary resumen de deudas con proveedores de una empresa.
type DebtSummary struct {
	TotalDebt         decimal.Decimal // CREDIT + PARTIAL
	TotalCredit       decimal.Decimal // totalmente impagas
	TotalPartial      decimal.Decimal // saldo de pagos parciales
	UnpaidItems       []UnpaidItem
	SupplierBreakdown []SupplierDebt
}

// SummarizeDebt agrega las entradas CREDIT/PARTIAL; las PAID se ignoran.
// Los proveedores se ordenan por deuda descendente y luego por nombre.
func SummarizeDebt(entries []*entity.ReceiptEntry, now time.Time) DebtSummary {
	s := DebtSummary{
		TotalDebt:    decimal.Zero,
		TotalCredit:  decimal.Zero,
		TotalPartial: decimal.Zero,
		UnpaidItems:  []UnpaidItem{},
	}
	bySupplier := make(map[string]*SupplierDebt)
	for _, e := range entries {
		if e.PaymentStatus != entity.PaymentCredit && e.PaymentStatus != entity.PaymentPartial {
			continue
		}
		out := e.Outstanding()
		s.TotalDebt = s.TotalDebt.Add(out)
		if e.PaymentStatus == entity.PaymentCredit {
			s.TotalCredit = s.TotalCredit.Add(out)
		} else {
			s.TotalPartial = s.TotalPartial.Add(out)
		}

		item := UnpaidItem{
			EntryID:         e.ID,
			ProductID:       e.ProductID,
			LocationID:      e.LocationID,
			Quantity:        e.Quantity,
			SupplierName:    e.SupplierName,
			SupplierContact: e.SupplierContact,
			PaymentStatus:   e.PaymentStatus,
			TotalCost:       valueOrZero(e.TotalCost),
			PaidAmount:      valueOrZero(e.PaidAmount),
			Outstanding:     out,
			ReceivedDate:    e.ReceivedDate,
			PaymentDueDate:  e.PaymentDueDate,
			Overdue:         e.PaymentDueDate != nil && e.PaymentDueDate.Before(now) && out.IsPositive(),
		}
		s.UnpaidItems = append(s.UnpaidItems, item)

		name := e.SupplierName
		if name == "" {
			name = UnknownSupplier
		}
		sd, ok := bySupplier[name]
		if !ok {
			sd = &SupplierDebt{SupplierName: name, TotalOwed: decimal.Zero}
			bySupplier[name] = sd
		}
		sd.TotalOwed = sd.TotalOwed.Add(out)
		sd.EntryCount++
	}

	s.SupplierBreakdown = make([]SupplierDebt, 0, len(bySupplier))
	for _, sd := range bySupplier {
		s.SupplierBreakdown = append(s.SupplierBreakdown, *sd)
	}
	sort.Slice(s.SupplierBreakdown, func(i, j int) bool {
		a, b := s.SupplierBreakdown[i], s.SupplierBreakdown[j]
		if !a.TotalOwed.Equal(b.TotalOwed) {
			return a.TotalOwed.GreaterThan(b.TotalOwed)
		}
		return a.SupplierName < b.SupplierName
	})
	return s
}

// Settle aplica un pago a la entrada.
//   - paidAmount nil: pago total (paidAmount = totalCost), estado PAID.
//   - saldo <= 0: PAID; 0 < pagado < total: PARTIAL; pagado = 0: CREDIT.
//
// Los montos se comparan ya redondeados a MoneyScale, igual que se guardan.
// paidAt se fija solo cuando el estado queda en PAID.
func Settle(e *entity.ReceiptEntry, paidAmount *decimal.Decimal, now time.Time) error {
	total := valueOrZero(e.TotalCost).Round(MoneyScale)
	if paidAmount == nil {
		paid := total
		e.PaidAmount = &paid
		e.PaymentStatus = entity.PaymentPaid
		e.PaidAt = &now
		e.UpdatedAt = now
		return nil
	}
	if paidAmount.IsNegative() {
		return domain.ErrInvalidInput
	}
	paid := paidAmount.Round(MoneyScale)
	e.PaidAmount = &paid
	switch {
	case !total.Sub(paid).IsPositive():
		e.PaymentStatus = entity.PaymentPaid
		e.PaidAt = &now
	case paid.IsPositive():
		e.PaymentStatus = entity.PaymentPartial
		e.PaidAt = nil
	default:
		e.PaymentStatus = entity.PaymentCredit
		e.PaidAt = nil
	}
	e.UpdatedAt = now
	return nil
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
