package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// MovementType tipo cerrado de movimiento del ledger.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementStockIn     MovementType = "STOCK_IN"     // auditoría de una entrada (la entrada física es el ReceiptEntry)
	MovementSale        MovementType = "SALE"         // salida por venta
	MovementTransferOut MovementType = "TRANSFER_OUT" // salida por traslado
	MovementTransferIn  MovementType = "TRANSFER_IN"  // auditoría de traslado en destino
	MovementAdjustment  MovementType = "ADJUSTMENT"   // ajuste manual (±)
	MovementRestock     MovementType = "RESTOCK"      // reposición sin recepción física
	MovementReturn      MovementType = "RETURN"       // devolución de cliente
)

// AllMovementTypes lista los tipos válidos en orden estable.
var AllMovementTypes = []MovementType{
	MovementStockIn, MovementSale, MovementTransferOut, MovementTransferIn,
	MovementAdjustment, MovementRestock, MovementReturn,
}

// ParseMovementType convierte un string al tipo cerrado; error si no existe.
func ParseMovementType(s string) (MovementType, error) {
	for _, t := range AllMovementTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("tipo de movimiento %q: %w", s, domain.ErrInvalidInput)
}

// CountsTowardStock indica si el tipo participa en la fórmula de stock.
// STOCK_IN y TRANSFER_IN son solo auditoría: su efecto físico ya está en un ReceiptEntry.
func (t MovementType) CountsTowardStock() bool {
	return t != MovementStockIn && t != MovementTransferIn
}

// ValidSign verifica que el signo de la cantidad corresponda al tipo.
func (t MovementType) ValidSign(quantity int64) bool {
	if quantity == 0 {
		return false
	}
	switch t {
	case MovementSale, MovementTransferOut:
		return quantity < 0
	case MovementStockIn, MovementTransferIn, MovementRestock, MovementReturn:
		return quantity > 0
	case MovementAdjustment:
		return true
	}
	return false
}

// StockMovement fila inmutable del ledger: un evento con cantidad firmada.
type StockMovement struct {
	ID            string
	MerchantID    string
	ProductID     string
	LocationID    string
	UserID        string
	Type          MovementType
	Quantity      int64 // firmada, nunca 0
	Reason        string
	ReferenceID   string
	ReferenceType string
	CreatedAt     time.Time
}

// Referencias conocidas para ReferenceType.
const (
	ReferenceSale         = "SALE"
	ReferenceReceiptEntry = "RECEIPT_ENTRY"
	ReferenceTransfer     = "TRANSFER"
)

// NewStockMovement construye un movimiento validando tipo y signo.
func NewStockMovement(merchantID, productID, locationID, userID string, t MovementType, quantity int64, now time.Time) (*StockMovement, error) {
	if merchantID == "" || productID == "" || locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := ParseMovementType(string(t)); err != nil {
		return nil, err
	}
	if !t.ValidSign(quantity) {
		return nil, fmt.Errorf("movimiento %s con cantidad %d: %w", t, quantity, domain.ErrInvalidQuantity)
	}
	return &StockMovement{
		MerchantID: merchantID,
		ProductID:  productID,
		LocationID: locationID,
		UserID:     userID,
		Type:       t,
		Quantity:   quantity,
		CreatedAt:  now,
	}, nil
}
