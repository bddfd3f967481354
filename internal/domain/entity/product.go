package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product vista del catálogo que consume el ledger (el CRUD vive fuera de este servicio).
type Product struct {
	ID                string
	MerchantID        string
	SKU               string
	Name              string
	Price             decimal.Decimal // precio de lista
	CostPrice         decimal.Decimal
	LowStockThreshold int64 // 0 = sin alerta
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
