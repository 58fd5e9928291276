package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

// RequestLogger registra cada petición: método, ruta, status, latencia y usuario.
// Debe montarse antes de las rutas; el usuario solo aparece en rutas protegidas.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status, _ = errorResponse(err)
		}
		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("request")
		return err
	}
}
