package handlers

import (
	"errors"
	"net/http"

	"github.com/arman-dehghani/campushub/config"
	jwtmw "github.com/arman-dehghani/campushub/middleware/jwt"
	"github.com/arman-dehghani/campushub/services/auth"
	"github.com/arman-dehghani/campushub/services/jwt"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	authService *auth.Service
	jwtService  *jwt.Service
	cfg         *config.Config
}

func NewAuthHandler(authService *auth.Service, jwtService *jwt.Service, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtService:  jwtService,
		cfg:         cfg,
	}
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Login verifies the credential and returns the access token in the body; the
// refresh token only ever travels in an HTTP-only cookie scoped to the API.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	result, err := h.authService.Login(req.Username, req.Password,
		c.Request().UserAgent(), c.RealIP())
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		if errors.Is(err, auth.ErrHashFormat) {
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.setRefreshCookie(c, result.Pair.RefreshToken, h.jwtService.GetRefreshExpirySeconds())

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: result.Pair.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   h.jwtService.GetAccessExpirySeconds(),
	})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(jwtmw.RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing credentials")
	}

	result, err := h.authService.Refresh(cookie.Value)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing credentials")
	}

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   h.jwtService.GetAccessExpirySeconds(),
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	cookie, err := c.Cookie(jwtmw.RefreshCookieName)
	if err == nil && cookie.Value != "" {
		if err := h.authService.Logout(cookie.Value); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	// Expire the cookie regardless; logout with no session is a no-op.
	h.setRefreshCookie(c, "", -1)

	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) Sessions(c echo.Context) error {
	records, err := h.authService.Sessions(jwtmw.GetUserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, records)
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, value string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     jwtmw.RefreshCookieName,
		Value:    value,
		Path:     "/api",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.Auth.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
