package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

// NewErrorHandler ErrorHandler de Fiber: los handlers devuelven el error tal cual y aquí se traduce a HTTP.
func NewErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		status, body := errorResponse(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Int("status", status).
				Msg("error no controlado")
		}
		return c.Status(status).JSON(body)
	}
}

// errorResponse mapea errores de dominio a código HTTP y cuerpo.
func errorResponse(err error) (int, dto.ErrorResponse) {
	var (
		reqErr   *requestError
		valErr   *domain.ValidationError
		stockErr *domain.InsufficientStockError
		priceErr *domain.InvalidPriceError
		dupErr   *domain.DuplicateKeyError
		nfErr    *domain.NotFoundError
		trErr    *domain.InvalidStateTransitionError
		fiberErr *fiber.Error
	)
	switch {
	case errors.As(err, &reqErr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: reqErr.Error(), Fields: reqErr.Fields}
	case errors.As(err, &valErr):
		resp := dto.ErrorResponse{Code: "VALIDATION", Message: valErr.Message}
		if valErr.Field != "" {
			resp.Fields = map[string]string{valErr.Field: valErr.Message}
		}
		return fiber.StatusBadRequest, resp
	case errors.As(err, &priceErr):
		return fiber.StatusBadRequest, dto.ErrorResponse{
			Code: "INVALID_PRICE", Message: priceErr.Error(),
			Fields: map[string]string{"product_id": priceErr.ProductID},
		}
	case errors.As(err, &stockErr):
		return fiber.StatusConflict, dto.ErrorResponse{
			Code: "INSUFFICIENT_STOCK", Message: stockErr.Error(),
			Fields: map[string]string{"product_id": stockErr.ProductID},
		}
	case errors.As(err, &dupErr):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: dupErr.Error()}
	case errors.As(err, &nfErr):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: nfErr.Error()}
	case errors.As(err, &trErr):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INVALID_STATE_TRANSITION", Message: trErr.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()}
	case errors.Is(err, domain.ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "STORAGE_UNAVAILABLE", Message: err.Error()}
	case errors.Is(err, domain.ErrDatabaseUnavailable):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "DATABASE_UNAVAILABLE", Message: domain.ErrDatabaseUnavailable.Error()}
	case errors.As(err, &fiberErr):
		return fiberErr.Code, dto.ErrorResponse{Code: fiberCode(fiberErr.Code), Message: fiberErr.Message}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"}
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	}
	if status >= fiber.StatusInternalServerError {
		return "INTERNAL"
	}
	return "BAD_REQUEST"
}
