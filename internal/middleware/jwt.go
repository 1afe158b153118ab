package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	authpkg "github.com/octobees/outreach-drafter/internal/auth"
)

// JWT validates the access token from the Authorization header or, failing
// that, the session cookie, and stores operator metadata in the context.
func JWT(manager *authpkg.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			value := c.Request().Header.Get("Authorization")
			if value != "" {
				parts := strings.SplitN(value, " ", 2)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization header"})
				}
			} else if cookie, err := c.Cookie(CookieAccessToken); err == nil {
				value = cookie.Value
			}
			if strings.TrimSpace(value) == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing credentials", "redirect": "/login"})
			}

			claims, err := manager.ParseBearer(value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token", "redirect": "/login"})
			}

			c.Set(ContextKeyUserID, claims.Subject)
			c.Set(ContextKeyUserEmail, claims.Email)
			c.Set(ContextKeyUserRole, claims.Role)

			return next(c)
		}
	}
}
