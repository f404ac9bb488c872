package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func JwtMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "로그인이 필요합니다"))
	}
	tokenStr := authHeader[7:]

	return validateToken(ctx, tokenStr)
}

// JwtQueryMiddleware authenticates via ?token= for endpoints where headers
// are unavailable (browser WebSocket handshake).
func JwtQueryMiddleware(ctx *fiber.Ctx) error {
	tokenStr := ctx.Query("token")
	if tokenStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "로그인이 필요합니다"))
	}
	return validateToken(ctx, tokenStr)
}

func validateToken(ctx *fiber.Ctx, tokenStr string) error {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "세션이 만료되었습니다. 다시 로그인해주세요"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "세션이 만료되었습니다. 다시 로그인해주세요"))
	}

	ctx.Locals("user_id", claims["user_id"])
	return ctx.Next()
}
