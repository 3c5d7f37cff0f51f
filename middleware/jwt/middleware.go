package jwt

import (
	"errors"
	"net/http"
	"strings"

	"github.com/arman-dehghani/campushub/services/auth"
	"github.com/arman-dehghani/campushub/services/jwt"
	"github.com/labstack/echo/v4"
)

const (
	UserIDKey = "_jwt_user_id"
	RoleIDKey = "_jwt_role_id"
	ClaimsKey = "_jwt_claims"

	// RefreshCookieName is the HTTP-only cookie the refresh token travels in.
	RefreshCookieName = "refresh_token"

	// NewTokenHeader carries a transparently minted access token back to the
	// client when the presented one had expired.
	NewTokenHeader = "X-Access-Token"
)

// Decode-layer failures are deliberately collapsed into one message so the
// response does not reveal which part of the token was wrong.
const unauthenticatedMessage = "invalid or missing credentials"

type Refresher interface {
	Refresh(refreshToken string) (*auth.RefreshResult, error)
}

// RequireAuth validates the bearer access token. When the token is expired and
// the request carries a still-valid refresh cookie, a fresh access token is
// minted transparently and returned in the X-Access-Token header. Revocation
// is only consulted on that refresh path, so a revoked session lives at most
// one access-token lifetime.
func RequireAuth(jwtService *jwt.Service, refresher Refresher) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, unauthenticatedMessage)
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, unauthenticatedMessage)
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, unauthenticatedMessage)
			}

			claims, err := jwtService.ValidateToken(tokenString, jwt.KindAccess)
			if err == nil {
				c.Set(UserIDKey, claims.UserID)
				c.Set(RoleIDKey, claims.RoleID)
				c.Set(ClaimsKey, claims)
				return next(c)
			}

			// Only expiry earns a refresh attempt. Bad signatures, malformed
			// tokens and wrong kinds are rejected outright.
			if !errors.Is(err, jwt.ErrExpiredToken) || refresher == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, unauthenticatedMessage)
			}

			cookie, cookieErr := c.Cookie(RefreshCookieName)
			if cookieErr != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, unauthenticatedMessage)
			}

			result, refreshErr := refresher.Refresh(cookie.Value)
			if refreshErr != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, unauthenticatedMessage)
			}

			c.Response().Header().Set(NewTokenHeader, result.AccessToken)
			c.Set(UserIDKey, result.UserID)
			c.Set(RoleIDKey, result.RoleID)

			return next(c)
		}
	}
}

func GetUserID(c echo.Context) uint {
	if userID, ok := c.Get(UserIDKey).(uint); ok {
		return userID
	}
	return 0
}

func GetRoleID(c echo.Context) uint {
	if roleID, ok := c.Get(RoleIDKey).(uint); ok {
		return roleID
	}
	return 0
}

func GetClaims(c echo.Context) *jwt.Claims {
	if claims, ok := c.Get(ClaimsKey).(*jwt.Claims); ok {
		return claims
	}
	return nil
}
