// Package middleware holds the echo middleware of the API: bearer token
// authentication, the Redis response cache and the Redis token bucket.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWTAuth validates an HS256 bearer token and stores its subject under the
// "user_id" context key.  Tokens are issued elsewhere; a token without a
// string "sub" claim is rejected.
func JWTAuth(secret string) echo.MiddlewareFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token", "class": "redirect"})
			}

			var claims jwt.RegisteredClaims
			tok, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token", "class": "redirect"})
			}
			if claims.Subject == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims", "class": "redirect"})
			}

			c.Set(userIDKey, claims.Subject)
			return next(c)
		}
	}
}
