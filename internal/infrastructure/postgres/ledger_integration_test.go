//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// newTestPool levanta PostgreSQL en un contenedor, aplica migraciones y siembra una empresa.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "no se pudo iniciar el contenedor PostgreSQL")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	m, err := postgres.NewMigrator(pool, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	_, err = pool.Exec(ctx, `
		INSERT INTO locations (id, merchant_id, name, is_default) VALUES
			('loc-1', 'm-1', 'Tienda Centro', TRUE),
			('loc-2', 'm-1', 'Bodega Norte', FALSE);
		INSERT INTO products (id, merchant_id, sku, name, price, cost_price, low_stock_threshold) VALUES
			('prod-p', 'm-1', 'P-001', 'Café 500g', 10, 6, 5);`)
	require.NoError(t, err)
	return pool
}

func newDeps(pool *pgxpool.Pool) inventory.Deps {
	return inventory.Deps{
		TxRunner:  postgres.NewTxRunner(pool),
		Products:  postgres.NewProductRepository(pool),
		Locations: postgres.NewLocationRepository(pool),
		Stock:     postgres.NewStockRepository(pool),
		Receipts:  postgres.NewReceiptEntryRepository(pool),
		Movements: postgres.NewStockMovementRepository(pool),
	}
}

var caller = inventory.Caller{UserID: "u-1", MerchantID: "m-1", Role: "admin"}

func TestIntegration_EntradaVentaTrasladoYDeuda(t *testing.T) {
	pool := newTestPool(t)
	deps := newDeps(pool)
	ctx := context.Background()

	total := decimal.NewFromInt(100)
	added, err := inventory.NewAddStockUseCase(deps).AddStock(ctx, caller, inventory.AddStockInput{
		ProductID: "prod-p", Quantity: 20, PaymentStatus: "CREDIT", TotalCost: &total,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20), added.CurrentStock)

	_, err = inventory.NewCreateSaleUseCase(deps).CreateSale(ctx, caller, inventory.CreateSaleInput{
		Items: []inventory.SaleItemInput{{ProductID: "prod-p", Quantity: 15, UnitPrice: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)

	moved, err := inventory.NewTransferStockUseCase(deps).TransferStock(ctx, caller, inventory.TransferInput{
		ProductID: "prod-p", FromLocationID: "loc-1", ToLocationID: "loc-2", Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved.SourceStock)
	assert.Equal(t, int64(3), moved.DestinationStock)

	query := inventory.NewStockQueryUseCase(deps)
	batch, err := query.CurrentStockBatch(ctx, caller, []string{"prod-p"}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(5), batch["prod-p"])

	paid := decimal.NewFromInt(40)
	entry, err := inventory.NewDebtUseCase(deps, nil).MarkAsPaid(ctx, caller, added.Entry.ID, &paid)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentPartial, entry.PaymentStatus)

	stored, err := postgres.NewReceiptEntryRepository(pool).GetByID(ctx, added.Entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "60", stored.Outstanding().String())
	assert.Equal(t, int64(20), stored.Quantity)

	history, err := query.ListMovements(ctx, caller, inventory.MovementQuery{ProductID: "prod-p"})
	require.NoError(t, err)
	assert.Len(t, history, 4, "STOCK_IN, SALE, TRANSFER_OUT, TRANSFER_IN")
}

// El CHECK de signo rechaza movimientos inconsistentes aunque se salte la capa de servicio.
func TestIntegration_CheckDeSigno(t *testing.T) {
	pool := newTestPool(t)
	err := postgres.NewStockMovementRepository(pool).Create(context.Background(), &entity.StockMovement{
		ID: "mv-1", MerchantID: "m-1", ProductID: "prod-p", LocationID: "loc-1", UserID: "u-1",
		Type: entity.MovementSale, Quantity: 5, CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// Ventas concurrentes serializadas por advisory lock: nunca se vende más de lo disponible.
func TestIntegration_VentasConcurrentes(t *testing.T) {
	pool := newTestPool(t)
	deps := newDeps(pool)
	ctx := context.Background()

	_, err := inventory.NewAddStockUseCase(deps).AddStock(ctx, caller, inventory.AddStockInput{ProductID: "prod-p", Quantity: 10})
	require.NoError(t, err)

	uc := inventory.NewCreateSaleUseCase(deps)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.CreateSale(ctx, caller, inventory.CreateSaleInput{
				Items: []inventory.SaleItemInput{{ProductID: "prod-p", Quantity: 1, UnitPrice: decimal.NewFromInt(10)}},
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				fail++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, ok)
	assert.Equal(t, 10, fail)

	tally, err := postgres.NewStockRepository(pool).Tally(ctx, "m-1", "prod-p", "loc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), tally.Stock())
}

func TestIntegration_LockOrdenaLlaves(t *testing.T) {
	pool := newTestPool(t)
	err := postgres.NewTxRunner(pool).Run(context.Background(), func(repos inventory.LedgerRepos) error {
		return repos.Stock.Lock(context.Background(),
			repository.StockKey{ProductID: "b", LocationID: "1"},
			repository.StockKey{ProductID: "a", LocationID: "2"},
			repository.StockKey{ProductID: "a", LocationID: "2"},
		)
	})
	assert.NoError(t, err)
}
