package serverutils

import (
	"carfinder-be/internal/pkg/tokens"

	"github.com/gofiber/fiber/v2"
)

// NewJwtMiddleware guards routes with bearer access tokens and exposes the
// caller's identity through ctx.Locals.
func NewJwtMiddleware(jwtService tokens.IJwtService) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Missing token"))
		}
		tokenStr := authHeader[7:]

		claims, err := jwtService.ParseAccessToken(tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Invalid token"))
		}

		ctx.Locals("user_id", claims.UserId)
		ctx.Locals("email", claims.Email)
		ctx.Locals("email_verified", claims.EmailVerified)
		return ctx.Next()
	}
}

// ClientIP prefers the X-Forwarded-For header set by the proxy layer.
func ClientIP(ctx *fiber.Ctx) string {
	if forwarded := ctx.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return ctx.IP()
}
