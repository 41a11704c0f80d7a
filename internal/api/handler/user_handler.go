package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/triviahq/gameshow-system/internal/core/domain"
	"github.com/triviahq/gameshow-system/internal/core/ports"
)

// UserHandler exposes the admin-only user management surface.
type UserHandler struct {
	authService ports.AuthService
}

func NewUserHandler(authService ports.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=host producer admin"`
}

// ChangeRole handles PATCH /v1/users/:id/role, the only role mutation
// path. The change takes effect for live sessions at next token issuance.
//
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      changeRoleRequest  true  "New role"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/users/{id}/role [patch]
func (h *UserHandler) ChangeRole(c echo.Context) error {
	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.authService.ChangeRole(c.Request().Context(), c.Param("id"), domain.Role(req.Role))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}
