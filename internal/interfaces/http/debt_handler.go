package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// DebtHandler deudas con proveedores (entradas a crédito o con pago parcial).
type DebtHandler struct {
	uc  *inventory.DebtUseCase
	log *logger.Logger
}

// NewDebtHandler construye el handler.
func NewDebtHandler(uc *inventory.DebtUseCase, log *logger.Logger) *DebtHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &DebtHandler{uc: uc, log: log}
}

// Summary godoc
// @Summary      Resumen de deudas con proveedores
// @Tags         debts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DebtSummaryResponse
// @Router       /api/debts/summary [get]
func (h *DebtHandler) Summary(c *fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	s, err := h.uc.DebtSummary(c.UserContext(), caller)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(toDebtSummaryResponse(s))
}

// MarkAsPaid godoc
// @Summary      Registrar pago de una entrada
// @Description  Sin paid_amount se paga el costo total.
// @Tags         debts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true   "ID de la entrada"
// @Param        body  body  dto.MarkAsPaidRequest  false  "paid_amount"
// @Success      200   {object}  dto.ReceiptEntryDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/debts/{id}/pay [post]
func (h *DebtHandler) MarkAsPaid(c *fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.MarkAsPaidRequest
	if len(c.Body()) > 0 {
		if err := bind(c, &in); err != nil {
			return respondError(c, h.log, err)
		}
	}
	entry, err := h.uc.MarkAsPaid(c.UserContext(), caller, c.Params("id"), in.PaidAmount)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(toReceiptDTO(entry))
}

// Statement godoc
// @Summary      Estado de cuenta con proveedores (PDF)
// @Tags         debts
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/debts/statement.pdf [get]
func (h *DebtHandler) Statement(c *fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return unauthorized(c)
	}
	pdf, err := h.uc.DebtStatement(c.UserContext(), caller)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="estado-de-cuenta.pdf"`)
	return c.Send(pdf)
}
