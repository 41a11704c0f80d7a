package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/triviahq/gameshow-system/internal/api/metrics"
	"github.com/triviahq/gameshow-system/internal/core/domain"
)

// RequireRole gates a route at a minimum role in the host < producer <
// admin order. A request with no resolved session is 401; a resolved
// session below min is 403. The two outcomes are never conflated.
func RequireRole(min domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(domain.Role)
			if !ok {
				metrics.AuthFailuresTotal.WithLabelValues("unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if !role.AtLeast(min) {
				metrics.AuthFailuresTotal.WithLabelValues("forbidden").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// Authenticated gates a route on any resolved session, regardless of role.
func Authenticated() echo.MiddlewareFunc {
	return RequireRole(domain.RoleHost)
}
