package rbac

import (
	"net/http"

	"github.com/arman-dehghani/campushub/middleware/jwt"
	"github.com/arman-dehghani/campushub/services/auth"
	"github.com/labstack/echo/v4"
)

// RequireRoles admits the request iff the authenticated subject's role id is
// in the allowed set. It runs strictly after the authentication gate: a
// request with no subject fails with 401, never 403.
func RequireRoles(allowedRoleIDs ...uint) echo.MiddlewareFunc {
	allowed := make(map[uint]struct{}, len(allowedRoleIDs))
	for _, id := range allowedRoleIDs {
		allowed[id] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if jwt.GetUserID(c) == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing credentials")
			}

			if _, ok := allowed[jwt.GetRoleID(c)]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}

			return next(c)
		}
	}
}

// RequireAdmin admits admins and super admins.
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRoles(auth.RoleAdmin, auth.RoleSuperAdmin)
}

// RequireSuperAdmin admits super admins only.
func RequireSuperAdmin() echo.MiddlewareFunc {
	return RequireRoles(auth.RoleSuperAdmin)
}
