package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/arman-dehghani/campushub/services/auth"
	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	authService *auth.Service
}

func NewAdminHandler(authService *auth.Service) *AdminHandler {
	return &AdminHandler{authService: authService}
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.authService.ListUsers()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, users)
}

type changeRoleRequest struct {
	RoleID uint `json:"role_id"`
}

func (h *AdminHandler) ChangeRole(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.authService.ElevateRole(uint(userID), req.RoleID); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "role updated"})
}
