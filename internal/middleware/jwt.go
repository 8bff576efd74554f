// Package middleware contains the Echo middleware used by the router:
// JWT auth for host routes, a Redis response cache for public reads
// and a Redis token-bucket rate limiter.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	CtxHostID    = "host_id"
	CtxHostEmail = "host_email"
)

// JWTAuth validates the Bearer access token on host routes and stores
// the host id and email in the request context.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token claims"})
			}
			sub, ok := claims["sub"].(float64)
			if !ok || sub <= 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token subject"})
			}

			c.Set(CtxHostID, uint64(sub))
			if email, ok := claims["email"].(string); ok {
				c.Set(CtxHostEmail, email)
			}
			return next(c)
		}
	}
}

// HostID reads the authenticated host id set by JWTAuth.
func HostID(c echo.Context) uint64 {
	id, _ := c.Get(CtxHostID).(uint64)
	return id
}
