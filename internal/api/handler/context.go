package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/triviahq/gameshow-system/internal/core/domain"
)

// ctxSession extracts the session injected by the Auth middleware and
// fast-fails before any service call:
//   - role must be present and valid (presence proves the middleware ran).
//   - user id must be non-empty; a token that resolves without one cannot
//     attribute writes, so it is rejected with 401.
func ctxSession(c echo.Context) (userID string, role domain.Role, err error) {
	role, ok := c.Get("role").(domain.Role)
	if !ok || !role.Valid() {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	userID, _ = c.Get("user_id").(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "token missing user identity")
	}

	return userID, role, nil
}
