package serverutils

import (
	"strings"

	"ar-storefront-be/internal/pkg/auth"

	"github.com/gofiber/fiber/v2"
)

const (
	TokenCookie  = "token"
	LocalsClaims = "claims"
)

// BearerOrCookie returns the session token from the Authorization header,
// falling back to the token cookie.
func BearerOrCookie(ctx *fiber.Ctx) string {
	authHeader := ctx.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ctx.Cookies(TokenCookie)
}

func JwtMiddleware(jwtService *auth.JWTService, blacklist auth.TokenBlacklist) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := BearerOrCookie(ctx)
		if tokenStr == "" {
			return ErrorResponse(ctx, fiber.StatusUnauthorized, "Missing token")
		}

		claims, err := jwtService.Validate(tokenStr)
		if err != nil {
			return ErrorResponse(ctx, fiber.StatusUnauthorized, "Invalid token")
		}

		revoked, err := blacklist.IsRevoked(ctx.UserContext(), claims.ID)
		if err != nil {
			return err
		}
		if revoked {
			return ErrorResponse(ctx, fiber.StatusUnauthorized, auth.ErrTokenBlacklisted.Error())
		}

		ctx.Locals(LocalsClaims, claims)
		return ctx.Next()
	}
}

// ClaimsFrom returns the claims stored by JwtMiddleware.
func ClaimsFrom(ctx *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := ctx.Locals(LocalsClaims).(*auth.Claims)
	return claims, ok
}
