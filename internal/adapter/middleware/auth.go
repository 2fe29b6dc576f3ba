package middleware

import (
	"errors"
	"net/http"
	"strings"

	"credify-backend/pkg/jwt"
	"credify-backend/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "

	claimsKey = "auth_claims"
)

// TokenValidator must reject refresh tokens.
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

func bearer(c echo.Context) (string, bool) {
	h := c.Request().Header.Get(AuthorizationHeader)
	if !strings.HasPrefix(h, BearerPrefix) {
		return "", false
	}
	tok := strings.TrimSpace(strings.TrimPrefix(h, BearerPrefix))
	return tok, tok != ""
}

// Auth rejects requests without a valid bearer token and stores the claims
// on the echo context.
func Auth(tokens TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if c.Request().Header.Get(AuthorizationHeader) == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header is required"})
			}
			tok, ok := bearer(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid authorization format. Use: Bearer <token>"})
			}
			claims, err := tokens.ValidateAccessToken(tok)
			if err != nil {
				logger.Debug(ctx, "token rejected", zap.String("path", c.Path()), zap.Error(err))
				if errors.Is(err, jwt.ErrExpiredToken) {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Token has expired"})
				}
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// OptionalAuth attaches claims when a valid token is present and otherwise
// lets the request through anonymously.
func OptionalAuth(tokens TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if tok, ok := bearer(c); ok {
				if claims, err := tokens.ValidateAccessToken(tok); err == nil {
					c.Set(claimsKey, claims)
				}
			}
			return next(c)
		}
	}
}

// RequireRole must run after Auth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cl, ok := Claims(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
			for _, r := range roles {
				if cl.Role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "this action requires role " + strings.Join(roles, " or ")})
		}
	}
}

func Claims(c echo.Context) (*jwt.Claims, bool) {
	cl, ok := c.Get(claimsKey).(*jwt.Claims)
	return cl, ok && cl != nil
}

// SetClaims is used by handler tests that bypass Auth.
func SetClaims(c echo.Context, cl *jwt.Claims) { c.Set(claimsKey, cl) }
