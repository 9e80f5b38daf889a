package serverutils

import (
	"carfinder-be/internal/pkg/apperror"
	"carfinder-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware translates domain errors into the client envelope.
// This is the single place error kinds map to HTTP statuses.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		// Fiber routing errors (404, 405, body too large) keep their status.
		if fiberErr, ok := err.(*fiber.Error); ok {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		status := apperror.StatusCode(err)
		if status >= 500 {
			log.Error("http", "request failed", map[string]interface{}{
				"path":   ctx.Path(),
				"method": ctx.Method(),
				"error":  err.Error(),
			})
		}

		return ctx.Status(status).JSON(ErrorResponse(status, apperror.ClientMessage(err)))
	}
}
