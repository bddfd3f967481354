package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

var validate = validator.New()

// requestError body mal formado o que no cumple las reglas del DTO.
type requestError struct {
	code string
	msg  string
}

func (e *requestError) Error() string { return e.msg }

// bind parsea el body y aplica las reglas `validate` del DTO.
func bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &requestError{code: "INVALID_BODY", msg: "cuerpo inválido"}
	}
	if err := validate.Struct(out); err != nil {
		return &requestError{code: "VALIDATION", msg: validationMessage(err)}
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "datos inválidos"
	}
	fe := verrs[0]
	return "campo " + fe.Namespace() + " no cumple la regla " + fe.Tag()
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// respondError traduce errores de dominio a HTTP: 400 validación, stock o traslado;
// 403 acceso; 404 no encontrado; 409 conflicto; 500 el resto.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var (
		reqErr       *requestError
		insufficient *ledger.InsufficientStockError
	)
	switch {
	case errors.As(err, &reqErr):
		return badRequest(c, reqErr.code, reqErr.msg)
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusBadRequest).JSON(dto.InsufficientStockResponse{
			ErrorResponse: dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: insufficient.Error()},
			ProductID:     insufficient.ProductID,
			LocationID:    insufficient.LocationID,
			Available:     insufficient.Available,
			Requested:     insufficient.Requested,
			Breakdown:     insufficient.Breakdown,
		})
	case errors.Is(err, domain.ErrInsufficientStock):
		return badRequest(c, "INSUFFICIENT_STOCK", err.Error())
	case errors.Is(err, domain.ErrInvalidTransfer):
		return badRequest(c, "INVALID_TRANSFER", err.Error())
	case errors.Is(err, domain.ErrInvalidItems):
		return badRequest(c, "INVALID_ITEMS", err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity):
		return badRequest(c, "INVALID_QUANTITY", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return badRequest(c, "VALIDATION", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
