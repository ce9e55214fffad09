package session

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CookieName is the cookie carrying the session token.
const CookieName = "access_token"

// TokenMiddleware authenticates requests for resource servers.
type TokenMiddleware struct {
	tokenService TokenService
}

// NewTokenMiddleware creates an authentication middleware over the given
// token service.
func NewTokenMiddleware(tokenService TokenService) *TokenMiddleware {
	return &TokenMiddleware{tokenService: tokenService}
}

// Authenticate validates the session token from the Authorization header or
// the access_token cookie and stores the claims in request locals. Failures
// are reported uniformly so callers learn nothing about why a token was
// rejected.
func (m *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c)
		if token == "" {
			return ErrMissingToken()
		}

		claims, err := m.tokenService.Validate(c.Context(), token)
		if err != nil {
			return ErrInvalidToken()
		}

		c.Locals("session", claims)
		return c.Next()
	}
}

func tokenFromRequest(c *fiber.Ctx) string {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
			return parts[1]
		}
	}
	return c.Cookies(CookieName)
}

// ClaimsFromLocals returns the claims stored by Authenticate, or nil.
func ClaimsFromLocals(c *fiber.Ctx) *Claims {
	claims, _ := c.Locals("session").(*Claims)
	return claims
}
