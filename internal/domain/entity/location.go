package entity

import "time"

// Location tienda, bodega o sucursal donde se almacena inventario.
type Location struct {
	ID         string
	MerchantID string
	Name       string
	Address    string
	IsDefault  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
