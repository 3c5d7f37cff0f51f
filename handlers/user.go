package handlers

import (
	"errors"
	"net/http"

	jwtmw "github.com/arman-dehghani/campushub/middleware/jwt"
	"github.com/arman-dehghani/campushub/services/auth"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	authService *auth.Service
}

func NewUserHandler(authService *auth.Service) *UserHandler {
	return &UserHandler{authService: authService}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username, email and password are required")
	}

	user, err := h.authService.Register(auth.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			return echo.NewHTTPError(http.StatusConflict, "username already exists")
		}
		if errors.Is(err, auth.ErrPasswordHashingFailed) {
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
		// Remaining failures are password-policy violations.
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.authService.FindUserByID(jwtmw.GetUserID(c))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	err := h.authService.ChangePassword(jwtmw.GetUserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, auth.ErrHashFormat):
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		case errors.Is(err, auth.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing credentials")
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *UserHandler) Deactivate(c echo.Context) error {
	if err := h.authService.Deactivate(jwtmw.GetUserID(c)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "account deactivated"})
}
