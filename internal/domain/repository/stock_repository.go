package repository

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

// StockKey par (producto, ubicación) sobre el que se serializan las escrituras.
type StockKey struct {
	ProductID  string
	LocationID string
}

// SortStockKeys ordena y deduplica las llaves para adquirir bloqueos en orden estable.
func SortStockKeys(keys []StockKey) []StockKey {
	seen := make(map[StockKey]struct{}, len(keys))
	out := make([]StockKey, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].LocationID < out[j].LocationID
	})
	return out
}

// StockRepository lecturas agregadas del ledger (entradas + movimientos) y bloqueo
// de pares producto/ubicación. Nunca escribe: el stock no se materializa.
type StockRepository interface {
	// Tally agrega las filas de un producto; locationID vacío = todas las ubicaciones.
	Tally(ctx context.Context, merchantID, productID, locationID string) (ledger.Tally, error)
	// TallyBatch agrega varios productos en una ubicación (vacío = todas).
	// Los productos sin filas aparecen con un Tally vacío.
	TallyBatch(ctx context.Context, merchantID string, productIDs []string, locationID string) (map[string]ledger.Tally, error)
	// Lock bloquea los pares hasta el fin de la transacción (pg_advisory_xact_lock).
	// Sin transacción no tiene efecto útil: llamar solo desde TxRunner.
	Lock(ctx context.Context, keys ...StockKey) error
}
