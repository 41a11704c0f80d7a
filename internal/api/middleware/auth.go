package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/triviahq/gameshow-system/internal/api/metrics"
	"github.com/triviahq/gameshow-system/internal/core/domain"
	"github.com/triviahq/gameshow-system/internal/core/ports"
)

// SessionResolver validates a raw token and returns the session it asserts.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*ports.Session, error)
}

// Auth validates the bearer token and injects the resolved session into the
// request context. All failures here are 401: an unauthenticated caller is
// distinct from an authenticated-but-forbidden one, which RequireRole
// handles with 403.
func Auth(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.AuthFailuresTotal.WithLabelValues("unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.AuthFailuresTotal.WithLabelValues("unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			session, err := resolver.Resolve(c.Request().Context(), parts[1])
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("unauthenticated").Inc()
				if errors.Is(err, domain.ErrSessionResolution) {
					return echo.NewHTTPError(http.StatusUnauthorized, "session no longer valid")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("user_id", session.UserID)
			c.Set("role", session.Role)

			return next(c)
		}
	}
}
