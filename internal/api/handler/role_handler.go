package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talentlink/identity-api/internal/core/ports"
)

// RoleHandler exposes the seeded role set to administrators.
type RoleHandler struct {
	roles ports.RoleRepository
}

func NewRoleHandler(roles ports.RoleRepository) *RoleHandler {
	return &RoleHandler{roles: roles}
}

type rolesResponse struct {
	Roles []string `json:"roles"`
}

// List handles GET /api/roles.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  rolesResponse
// @Failure      403  {object}  map[string]string
// @Router       /api/roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	names, err := h.roles.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rolesResponse{Roles: names})
}
