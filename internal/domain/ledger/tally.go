// Package ledger contiene la lógica pura del ledger de stock: la fórmula de stock
// derivado, el diagnóstico de filas que la componen y la liquidación de deudas con
// proveedores. No accede a la base de datos.
package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// TypeTally cantidad de filas y suma de cantidades para un tipo de movimiento.
type TypeTally struct {
	Count int64
	Sum   int64
}

// Tally agregado de las filas del ledger para un producto (y opcionalmente una ubicación).
// Es la materia prima de la fórmula: los repositorios lo llenan con SUM/COUNT y Stock lo evalúa.
type Tally struct {
	ReceiptCount int64
	ReceiptSum   int64
	Movements    map[entity.MovementType]TypeTally
}

// NewTally crea un agregado vacío.
func NewTally() Tally {
	return Tally{Movements: make(map[entity.MovementType]TypeTally)}
}

// AddReceipt suma una entrada de stock.
func (t *Tally) AddReceipt(quantity int64) {
	t.ReceiptCount++
	t.ReceiptSum += quantity
}

// AddReceipts acumula count entradas cuya suma es sum (agregados SQL).
func (t *Tally) AddReceipts(count, sum int64) {
	t.ReceiptCount += count
	t.ReceiptSum += sum
}

// AddMovements acumula count filas de tipo typ cuya suma es sum.
func (t *Tally) AddMovements(typ entity.MovementType, count, sum int64) {
	if t.Movements == nil {
		t.Movements = make(map[entity.MovementType]TypeTally)
	}
	cur := t.Movements[typ]
	cur.Count += count
	cur.Sum += sum
	t.Movements[typ] = cur
}

// Stock aplica la fórmula del ledger:
//
//	stock = Σ receipts.quantity + Σ movements.quantity (type ∉ {STOCK_IN, TRANSFER_IN})
//
// Puede ser negativo si los datos están inconsistentes; nunca se recorta.
func (t Tally) Stock() int64 {
	total := t.ReceiptSum
	for typ, tt := range t.Movements {
		if typ.CountsTowardStock() {
			total += tt.Sum
		}
	}
	return total
}

// Breakdown describe las filas que componen el stock, para diagnóstico operativo.
func (t Tally) Breakdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "entradas=%d (suma %d)", t.ReceiptCount, t.ReceiptSum)
	types := make([]string, 0, len(t.Movements))
	for typ := range t.Movements {
		types = append(types, string(typ))
	}
	sort.Strings(types)
	for _, name := range types {
		tt := t.Movements[entity.MovementType(name)]
		excluded := ""
		if !entity.MovementType(name).CountsTowardStock() {
			excluded = ", excluido"
		}
		fmt.Fprintf(&b, "; %s=%d (suma %d%s)", name, tt.Count, tt.Sum, excluded)
	}
	return b.String()
}

// Compute evalúa el agregado directamente desde filas del ledger.
// locationID vacío agrega todas las ubicaciones del producto.
func Compute(productID, locationID string, receipts []*entity.ReceiptEntry, movements []*entity.StockMovement) Tally {
	t := NewTally()
	for _, r := range receipts {
		if r.ProductID != productID || (locationID != "" && r.LocationID != locationID) {
			continue
		}
		t.AddReceipt(r.Quantity)
	}
	for _, m := range movements {
		if m.ProductID != productID || (locationID != "" && m.LocationID != locationID) {
			continue
		}
		t.AddMovements(m.Type, 1, m.Quantity)
	}
	return t
}
