package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/audit"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/fees"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Ledger.Storage).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	ctx := context.Background()

	deps := inventory.Deps{
		Log:                      log.Component("ledger"),
		DefaultLowStockThreshold: cfg.Ledger.DefaultLowStockThreshold,
	}
	switch cfg.Ledger.Storage {
	case "memory":
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		wireMemory(&deps, memory.NewStore())
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.Ledger.AutoMigrate {
			migrator, err := postgres.NewMigrator(pool, log)
			if err != nil {
				log.Fatal().Err(err).Msg("inicializar migraciones")
			}
			if err := migrator.Up(); err != nil {
				log.Fatal().Err(err).Msg("aplicar migraciones")
			}
		}
		wirePostgres(&deps, pool)
	}

	feeCalc, err := fees.New(cfg.Ledger.PlatformFeePercent, cfg.Ledger.PlatformFeeFixed)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de comisión")
	}
	deps.Fees = feeCalc
	deps.Audit = audit.NewLogSink(log.Component("audit"))

	// Alertas de stock bajo: siempre al log; además a Redis si está configurado.
	notifiers := notify.Multi{notify.NewLogNotifier(log.Component("notify"))}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible; las alertas solo irán al log")
		}
		notifiers = append(notifiers, notify.NewRedisNotifier(rdb,
			notify.WithChannel(cfg.Redis.AlertChannel),
			notify.WithCooldown(time.Duration(cfg.Redis.AlertCooldownS)*time.Second),
			notify.WithLogger(log.Component("notify")),
		))
	}
	deps.Notifier = notifiers

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Stock Ledger API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Inventory: httpRouter.InventoryUseCases{
			AddStock:      inventory.NewAddStockUseCase(deps),
			Sales:         inventory.NewCreateSaleUseCase(deps),
			Transfers:     inventory.NewTransferStockUseCase(deps),
			Adjustments:   inventory.NewAdjustStockUseCase(deps),
			Query:         inventory.NewStockQueryUseCase(deps),
			Replenishment: inventory.NewReplenishmentUseCase(deps),
		},
		Debts:     inventory.NewDebtUseCase(deps, infrapdf.NewDebtStatementGenerator()),
		JWTSecret: cfg.JWT.Secret,
		Log:       log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func wirePostgres(deps *inventory.Deps, pool *pgxpool.Pool) {
	deps.TxRunner = postgres.NewTxRunner(pool)
	deps.Products = postgres.NewProductRepository(pool)
	deps.Locations = postgres.NewLocationRepository(pool)
	deps.Stock = postgres.NewStockRepository(pool)
	deps.Receipts = postgres.NewReceiptEntryRepository(pool)
	deps.Movements = postgres.NewStockMovementRepository(pool)
}

func wireMemory(deps *inventory.Deps, store *memory.Store) {
	deps.TxRunner = store
	deps.Products = store.Products()
	deps.Locations = store.Locations()
	deps.Stock = store.Stock()
	deps.Receipts = store.Receipts()
	deps.Movements = store.Movements()
}
