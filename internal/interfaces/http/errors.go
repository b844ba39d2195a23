package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/erp-workflow-api/internal/application/dto"
	"github.com/jhoicas/erp-workflow-api/internal/domain"
)

// respondError traduce errores del motor a HTTP. Los de negocio se registran como Warn.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	status, body := classify(err)
	ev := log.Warn()
	if status >= fiber.StatusInternalServerError {
		ev = log.Error()
	}
	ev.Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Str("company_id", GetCompanyID(c)).
		Msg("petición rechazada")
	if status == fiber.StatusServiceUnavailable {
		c.Set(fiber.HeaderRetryAfter, "1")
	}
	return c.Status(status).JSON(body)
}

func classify(err error) (int, dto.ErrorResponse) {
	var (
		verr     *validationError
		shortage *domain.StockShortageError
		trans    *domain.TransitionError
	)
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: verr.Error(), Details: verr.details}
	case errors.As(err, &shortage):
		return fiber.StatusConflict, dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: "stock insuficiente",
			Details: dto.ShortageDetail{
				ProductID:   shortage.ProductID,
				WarehouseID: shortage.WarehouseID,
				Available:   shortage.Available.String(),
				Requested:   shortage.Requested.String(),
			},
		}
	case errors.As(err, &trans):
		return fiber.StatusConflict, dto.ErrorResponse{
			Code:    "INVALID_STATE",
			Message: trans.Error(),
			Details: dto.TransitionDetail{Document: trans.Document, ID: trans.ID, Current: trans.Current, Required: trans.Required},
		}
	case domain.IsRetryable(err):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "RETRY", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidState):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INVALID_STATE", Message: err.Error()}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrAccountNotFound):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "ACCOUNT_NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrUnbalancedEntry):
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "UNBALANCED_ENTRY", Message: "asiento descuadrado, operación revertida"}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
	}
}
