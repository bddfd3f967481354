package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// InventoryHandler maneja las peticiones HTTP del ledger de stock (protegido).
type InventoryHandler struct {
	addStock      *inventory.AddStockUseCase
	sales         *inventory.CreateSaleUseCase
	transfers     *inventory.TransferStockUseCase
	adjustments   *inventory.AdjustStockUseCase
	query         *inventory.StockQueryUseCase
	replenishment *inventory.ReplenishmentUseCase
	log           *logger.Logger
}

// InventoryUseCases casos de uso que expone el handler.
type InventoryUseCases struct {
	AddStock      *inventory.AddStockUseCase
	Sales         *inventory.CreateSaleUseCase
	Transfers     *inventory.TransferStockUseCase
	Adjustments   *inventory.AdjustStockUseCase
	Query         *inventory.StockQueryUseCase
	Replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc InventoryUseCases, log *logger.Logger) *InventoryHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &InventoryHandler{
		addStock:      uc.AddStock,
		sales:         uc.Sales,
		transfers:     uc.Transfers,
		adjustments:   uc.Adjustments,
		query:         uc.Query,
		replenishment: uc.Replenishment,
		log:           log,
	}
}

// AddStock godoc
// @Summary      Registrar entrada de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddStockRequest  true  "product_id, quantity, location_id (opcional), datos de pago y proveedor"
// @Success      201   {object}  dto.AddStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [post]
func (h *InventoryHandler) AddStock(c *fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.AddStockRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	res, err := h.addStock.AddStock(c.UserContext(), caller, inventory.AddStockInput{
		ProductID:       in.ProductID,
		LocationID:      in.LocationID,
		Quantity:        in.Quantity,
		BatchNumber:     in.BatchNumber,
		ExpirationDate:  in.ExpirationDate.Ptr(),
		ReceivedDate:    in.ReceivedDate.Ptr(),
		Notes:           in.Notes,
		PaymentStatus:   in.PaymentStatus,
		SupplierName:    in.SupplierName,
		SupplierContact: in.SupplierContact,
		TotalCost:       in.TotalCost,
		PaidAmount:      in.PaidAmount,
		PaymentDueDate:  in.PaymentDueDate.Ptr(),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AddStockResponse{
		Entry:        toReceiptDTO(res.Entry),
		Movement:     toMovementDTO(res.Movement),
		CurrentStock: res.CurrentStock,
	})
}

// CreateSale godoc
// @Summary      Registrar venta
// @Description  Verifica el stock de cada línea; si alguna no alcanza no se persiste nada.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "líneas de venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.InsufficientStockResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/sales [post]
func (h *InventoryHandler) CreateSale(c *fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateSaleRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	items := make([]inventory.SaleItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, inventory.SaleItemInput{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	res, err := h.sales.CreateSale(c.UserContext(), caller, inventory.CreateSaleInput{
		Items:         items,
		LocationID:    in.LocationID,
		Notes:         in.Notes,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		SaleDate:      in.SaleDate.Ptr(),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(res))
}

// TransferStock godoc
// @Summary      Trasladar stock entre ubicaciones
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "product_id, from_location_id, to_location_id, quantity"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.InsufficientStockResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) TransferStock(c *fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.TransferRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	res, err := h.transfers.TransferStock(c.UserContext(), caller, inventory.TransferInput{
		ProductID:      in.ProductID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Quantity:       in.Quantity,
		Notes:          in.Notes,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		OutMovement:      toMovementDTO(res.OutMovement),
		InMovement:       toMovementDTO(res.InMovement),
		DestinationEntry: toReceiptDTO(res.DestinationEntry),
		SourceStock:      res.SourceStock,
		DestinationStock: res.DestinationStock,
	})
}

// AdjustStock godoc
// @Summary      Ajuste, reposición o devolución
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "type ADJUSTMENT|RESTOCK|RETURN, quantity con signo"
// @Success      201   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.AdjustStockRequest
	if err := bind(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	res, err := h.adjustments.AdjustStock(c.UserContext(), caller, inventory.AdjustStockInput{
		ProductID:     in.ProductID,
		LocationID:    in.LocationID,
		Type:          in.Type,
		Quantity:      in.Quantity,
		Reason:        in.Reason,
		ReferenceID:   in.ReferenceID,
		ReferenceType: in.ReferenceType,
		Correction:    in.Correction,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AdjustStockResponse{
		Movement:     toMovementDTO(res.Movement),
		CurrentStock: res.CurrentStock,
	})
}

// GetStock godoc
// @Summary      Stock actual de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId    path   string  true   "ID del producto"
// @Param        location_id  query  string  false  "Ubicación. Vacío = todas."
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{productId} [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	productID := c.Params("productId")
	locationID := c.Query("location_id")
	stock, err := h.query.CurrentStock(c.UserContext(), caller, productID, locationID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.StockResponse{ProductID: productID, LocationID: locationID, Stock: stock})
}

// GetStockBatch godoc
// @Summary      Stock de varios productos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_ids  query  string  true   "IDs separados por coma"
// @Param        location_id  query  string  false  "Ubicación. Vacío = todas."
// @Success      200  {object}  dto.StockBatchResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) GetStockBatch(c *fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	ids := splitCSV(c.Query("product_ids"))
	if len(ids) == 0 {
		return badRequest(c, "VALIDATION", "product_ids requerido")
	}
	locationID := c.Query("location_id")
	stock, err := h.query.CurrentStockBatch(c.UserContext(), caller, ids, locationID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	var omitted []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := stock[id]; !ok && !seen[id] {
			omitted = append(omitted, id)
		}
		seen[id] = true
	}
	return c.JSON(dto.StockBatchResponse{LocationID: locationID, Stock: stock, OmittedProductIDs: omitted})
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Producto"
// @Param        location_id  query  string  false  "Ubicación"
// @Param        types        query  string  false  "Tipos separados por coma"
// @Param        from         query  string  false  "Desde (RFC3339)"
// @Param        to           query  string  false  "Hasta (RFC3339)"
// @Param        limit        query  int     false  "Máximo de filas"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ListResponse[dto.StockMovementDTO]
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	from, err := queryTime(c, "from")
	if err != nil {
		return badRequest(c, "VALIDATION", "from debe ser RFC3339")
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return badRequest(c, "VALIDATION", "to debe ser RFC3339")
	}
	q := inventory.MovementQuery{
		ProductID:  c.Query("product_id"),
		LocationID: c.Query("location_id"),
		Types:      splitCSV(c.Query("types")),
		From:       from,
		To:         to,
		Limit:      c.QueryInt("limit"),
		Offset:     c.QueryInt("offset"),
	}
	list, err := h.query.ListMovements(c.UserContext(), caller, q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	items := make([]dto.StockMovementDTO, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementDTO(m))
	}
	return c.JSON(dto.ListResponse[dto.StockMovementDTO]{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}})
}

// ListReceipts godoc
// @Summary      Entradas de stock (lotes y vencimientos)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id            query  string  false  "Producto"
// @Param        location_id           query  string  false  "Ubicación"
// @Param        payment_status        query  string  false  "Estados separados por coma"
// @Param        expiring_within_days  query  int     false  "Solo lotes que vencen en N días"
// @Success      200  {object}  dto.ListResponse[dto.ReceiptEntryDTO]
// @Router       /api/inventory/receipts [get]
func (h *InventoryHandler) ListReceipts(c *fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	q := inventory.ReceiptQuery{
		ProductID:          c.Query("product_id"),
		LocationID:         c.Query("location_id"),
		PaymentStatuses:    splitCSV(c.Query("payment_status")),
		ExpiringWithinDays: c.QueryInt("expiring_within_days"),
		Limit:              c.QueryInt("limit"),
		Offset:             c.QueryInt("offset"),
	}
	list, err := h.query.ListReceipts(c.UserContext(), caller, q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	items := make([]dto.ReceiptEntryDTO, 0, len(list))
	for _, e := range list {
		items = append(items, toReceiptDTO(e))
	}
	return c.JSON(dto.ListResponse[dto.ReceiptEntryDTO]{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}})
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Productos en o bajo su umbral de stock bajo, con la cantidad sugerida de pedido.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Ubicación. Vacío = todas."
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), caller, c.Query("location_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := make([]dto.ReplenishmentSuggestionDTO, 0, len(list))
	for _, s := range list {
		out = append(out, toReplenishmentDTO(s))
	}
	return c.JSON(out)
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
