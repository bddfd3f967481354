// Package pdf genera el estado de cuenta de deudas con proveedores.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + empresa   │  Fecha de generación          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Deuda total / Crédito / Parcial                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PROVEEDORES: Nombre | Entradas | Adeudado                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DETALLE: Producto | Proveedor | Estado | Vence | Saldo     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ inventory.StatementRenderer = (*DebtStatementGenerator)(nil)

// DebtStatementGenerator implementa inventory.StatementRenderer usando Maroto v2.
type DebtStatementGenerator struct{}

// NewDebtStatementGenerator construye el generador.
func NewDebtStatementGenerator() *DebtStatementGenerator { return &DebtStatementGenerator{} }

// RenderDebtStatement genera el PDF y devuelve sus bytes.
func (g *DebtStatementGenerator) RenderDebtStatement(
	_ context.Context,
	merchantID string,
	summary ledger.DebtSummary,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Estado de cuenta con proveedores", true).
		WithAuthor(merchantID, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(merchantID, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("DEUDA POR PROVEEDOR"))
	m.AddRows(supplierHeaderRow())
	m.AddRows(supplierRows(summary.SupplierBreakdown)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle("ENTRADAS PENDIENTES DE PAGO"))
	m.AddRows(itemHeaderRow())
	m.AddRows(itemRows(summary.UnpaidItems)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(merchantID string, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("ESTADO DE CUENTA CON PROVEEDORES", props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New("Empresa: "+merchantID, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func summaryRow(s ledger.DebtSummary) core.Row {
	box := func(label string, v decimal.Decimal, c *props.Color) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorGray}),
			text.New("$"+formatMoney(v), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Center, Top: 6, Color: c,
			}),
		)
	}
	return row.New(16).Add(
		box("Deuda total", s.TotalDebt, colorDanger),
		box("Crédito (sin abonos)", s.TotalCredit, colorPrimary),
		box("Saldo pagos parciales", s.TotalPartial, colorPrimary),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func cell(value string, size int, a align.Type, c *props.Color) core.Col {
	return col.New(size).Add(text.New(value, props.Text{
		Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: c,
	}))
}

func supplierHeaderRow() core.Row {
	return row.New(6).Add(
		headerCell("Proveedor", 7, align.Left),
		headerCell("Entradas", 2, align.Center),
		headerCell("Adeudado", 3, align.Right),
	)
}

func supplierRows(suppliers []ledger.SupplierDebt) []core.Row {
	if len(suppliers) == 0 {
		return []core.Row{emptyRow()}
	}
	rows := make([]core.Row, 0, len(suppliers))
	for _, s := range suppliers {
		rows = append(rows, row.New(6).Add(
			cell(s.SupplierName, 7, align.Left, nil),
			cell(fmt.Sprintf("%d", s.EntryCount), 2, align.Center, nil),
			cell("$"+formatMoney(s.TotalOwed), 3, align.Right, nil),
		))
	}
	return rows
}

func itemHeaderRow() core.Row {
	return row.New(6).Add(
		headerCell("Producto", 3, align.Left),
		headerCell("Proveedor", 3, align.Left),
		headerCell("Cant.", 1, align.Center),
		headerCell("Estado", 1, align.Center),
		headerCell("Vence", 2, align.Center),
		headerCell("Saldo", 2, align.Right),
	)
}

func itemRows(items []ledger.UnpaidItem) []core.Row {
	if len(items) == 0 {
		return []core.Row{emptyRow()}
	}
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		due := "—"
		if it.PaymentDueDate != nil {
			due = it.PaymentDueDate.Format("02/01/2006")
		}
		var dueColor *props.Color
		if it.Overdue {
			dueColor = colorDanger
		}
		rows = append(rows, row.New(6).Add(
			cell(nonEmpty(it.ProductName, it.ProductID), 3, align.Left, nil),
			cell(nonEmpty(it.SupplierName, ledger.UnknownSupplier), 3, align.Left, nil),
			cell(fmt.Sprintf("%d", it.Quantity), 1, align.Center, nil),
			cell(string(it.PaymentStatus), 1, align.Center, nil),
			cell(due, 2, align.Center, dueColor),
			cell("$"+formatMoney(it.Outstanding), 2, align.Right, nil),
		))
	}
	return rows
}

func emptyRow() core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New("Sin registros", props.Text{Size: 8, Top: 1, Color: colorGray, Align: align.Center}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney separa miles con punto y decimales con coma.
// Ej: 25000 → "25.000", 1234567.5 → "1.234.567,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := sign + string(buf)
	if frac != "00" {
		out += "," + frac
	}
	return out
}
