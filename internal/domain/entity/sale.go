package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale agregado de venta multi-línea. Cada línea genera un movimiento SALE negativo.
type Sale struct {
	ID              string
	MerchantID      string
	LocationID      string
	UserID          string
	CustomerName    string
	CustomerPhone   string
	Notes           string
	SaleDate        time.Time
	TotalAmount     decimal.Decimal
	CostOfGoodsSold decimal.Decimal
	NetIncome       decimal.Decimal
	ProfitMargin    decimal.Decimal // porcentaje
	PlatformFee     decimal.Decimal
	Items           []SaleItem
	CreatedAt       time.Time
}

// SaleItem línea de venta: precio cobrado, precio de lista y costo al momento de vender.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	ListPrice decimal.Decimal
	CostPrice decimal.Decimal
	Subtotal  decimal.Decimal
}
