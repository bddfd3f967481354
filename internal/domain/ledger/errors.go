package ledger

import (
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// InsufficientStockError detalle de un faltante: producto, ubicación, disponible y solicitado.
// errors.Is(err, domain.ErrInsufficientStock) es verdadero.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	LocationID  string
	Available   int64
	Requested   int64
	Breakdown   string // solo en traslados y stock negativo
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	msg := fmt.Sprintf("stock insuficiente para %s en la ubicación %s: disponible %d, solicitado %d (faltan %d)",
		name, e.LocationID, e.Available, e.Requested, e.Shortfall())
	if e.Available < 0 {
		msg += "; el stock calculado es negativo, revise la integridad de los datos"
	}
	if e.Breakdown != "" {
		msg += " [" + e.Breakdown + "]"
	}
	return msg
}

// Shortfall unidades que faltan para cubrir lo solicitado.
func (e *InsufficientStockError) Shortfall() int64 {
	if e.Available < 0 {
		return e.Requested
	}
	return e.Requested - e.Available
}

func (e *InsufficientStockError) Unwrap() error { return domain.ErrInsufficientStock }

// IntegrityWarningError stock calculado negativo. Se registra en el log; la
// operación que lo detecta decide si continúa.
type IntegrityWarningError struct {
	ProductID  string
	LocationID string
	Stock      int64
	Breakdown  string
}

func (e *IntegrityWarningError) Error() string {
	return fmt.Sprintf("stock negativo (%d) para producto %s en ubicación %s [%s]",
		e.Stock, e.ProductID, e.LocationID, e.Breakdown)
}

func (e *IntegrityWarningError) Unwrap() error { return domain.ErrIntegrityWarning }
