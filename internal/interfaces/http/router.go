package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Inventory InventoryUseCases
	Debts     *inventory.DebtUseCase
	JWTSecret string
	Log       *logger.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Ledger de stock
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Inventory, deps.Log)
	invGroup.Post("/stock", inventoryHandler.AddStock)
	invGroup.Get("/stock", inventoryHandler.GetStockBatch)
	invGroup.Get("/stock/:productId", inventoryHandler.GetStock)
	invGroup.Post("/sales", inventoryHandler.CreateSale)
	invGroup.Post("/transfers", inventoryHandler.TransferStock)
	invGroup.Post("/adjustments",
		RequireRole(inventory.RoleAdmin, inventory.RoleBodeguero),
		inventoryHandler.AdjustStock)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/receipts", inventoryHandler.ListReceipts)
	invGroup.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)

	// Deudas con proveedores
	debts := api.Group("/debts")
	debtHandler := NewDebtHandler(deps.Debts, deps.Log)
	debts.Get("/summary", debtHandler.Summary)
	debts.Get("/statement.pdf", debtHandler.Statement)
	debts.Post("/:id/pay", RequireRole(inventory.RoleAdmin), debtHandler.MarkAsPaid)
}
