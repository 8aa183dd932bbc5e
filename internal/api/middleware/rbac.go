package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RBAC gates a route on the role claim stored by Auth. A request whose role
// is not in the allowed list gets a 403 without reaching the handler.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			for _, allowed := range allowedRoles {
				if role == allowed {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
