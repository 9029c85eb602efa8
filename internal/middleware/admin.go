package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const adminPasswordHeader = "X-Admin-Password"

// AdminGate закрывает мутации галереи общим паролем админки.
// Пустой хэш в конфиге запрещает мутации полностью.
func AdminGate(passwordHash string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if passwordHash == "" {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "admin access is not configured"})
			}

			password := c.Request().Header.Get(adminPasswordHeader)
			if password == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "admin password required"})
			}

			if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid admin password"})
			}

			return next(c)
		}
	}
}
