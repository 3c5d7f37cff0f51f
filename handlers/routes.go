package handlers

import (
	jwtmw "github.com/arman-dehghani/campushub/middleware/jwt"
	"github.com/arman-dehghani/campushub/middleware/rbac"
	"github.com/arman-dehghani/campushub/server"
	"github.com/arman-dehghani/campushub/services/jwt"
	"go.uber.org/fx"
)

// RegisterRoutes wires protected routes through the authentication gate and
// the administrative surfaces through the two canonical role guards.
func RegisterRoutes(srv *server.Server, jwtSvc *jwt.Service,
	authH *AuthHandler, userH *UserHandler, adminH *AdminHandler, eventH *EventHandler) {

	api := srv.Group("/api")

	api.POST("/auth/login", authH.Login)
	api.POST("/auth/refresh", authH.Refresh)
	api.POST("/auth/logout", authH.Logout)
	api.POST("/user/register", userH.Register)

	authed := api.Group("", jwtmw.RequireAuth(jwtSvc, authH.authService))
	authed.GET("/auth/sessions", authH.Sessions)
	authed.GET("/user/me", userH.Me)
	authed.PUT("/user/password", userH.ChangePassword)
	authed.DELETE("/user", userH.Deactivate)

	authed.GET("/events", eventH.List)
	authed.GET("/events/:id", eventH.Get)
	authed.POST("/events/:id/join", eventH.Join)
	authed.DELETE("/events/:id/join", eventH.Leave)

	admin := authed.Group("", rbac.RequireAdmin())
	admin.POST("/events", eventH.Create)
	admin.PUT("/events/:id", eventH.Update)
	admin.DELETE("/events/:id", eventH.Delete)
	admin.GET("/admin/users", adminH.ListUsers)

	super := authed.Group("", rbac.RequireSuperAdmin())
	super.PUT("/admin/users/:id/role", adminH.ChangeRole)
}

var Options = fx.Options(
	fx.Provide(NewAuthHandler),
	fx.Provide(NewUserHandler),
	fx.Provide(NewAdminHandler),
	fx.Provide(NewEventHandler),
	fx.Invoke(RegisterRoutes),
)
