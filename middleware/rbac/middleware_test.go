package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	jwtmw "github.com/arman-dehghani/campushub/middleware/jwt"
	"github.com/arman-dehghani/campushub/services/auth"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runGuard(t *testing.T, guard echo.MiddlewareFunc, userID, roleID uint) error {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if userID != 0 {
		c.Set(jwtmw.UserIDKey, userID)
		c.Set(jwtmw.RoleIDKey, roleID)
	}

	handler := guard(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return handler(c)
}

func assertStatus(t *testing.T, err error, want int) {
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, want, httpErr.Code)
}

func TestRequireRoles(t *testing.T) {
	t.Run("role in allowed set is admitted", func(t *testing.T) {
		err := runGuard(t, RequireRoles(1, 2, 3), 10, 1)
		assert.NoError(t, err)
	})

	t.Run("role outside allowed set is forbidden", func(t *testing.T) {
		err := runGuard(t, RequireRoles(2, 3), 10, 1)
		assertStatus(t, err, http.StatusForbidden)
	})

	t.Run("no authenticated subject fails as unauthenticated, not forbidden", func(t *testing.T) {
		err := runGuard(t, RequireRoles(1, 2, 3), 0, 0)
		assertStatus(t, err, http.StatusUnauthorized)
	})
}

func TestNamedGuards(t *testing.T) {
	t.Run("admin guard", func(t *testing.T) {
		assert.NoError(t, runGuard(t, RequireAdmin(), 10, auth.RoleAdmin))
		assert.NoError(t, runGuard(t, RequireAdmin(), 10, auth.RoleSuperAdmin))
		assertStatus(t, runGuard(t, RequireAdmin(), 10, auth.RoleUser), http.StatusForbidden)
	})

	t.Run("super admin guard", func(t *testing.T) {
		assert.NoError(t, runGuard(t, RequireSuperAdmin(), 10, auth.RoleSuperAdmin))
		assertStatus(t, runGuard(t, RequireSuperAdmin(), 10, auth.RoleAdmin), http.StatusForbidden)
		assertStatus(t, runGuard(t, RequireSuperAdmin(), 10, auth.RoleUser), http.StatusForbidden)
	})
}
