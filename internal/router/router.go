// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/verimail/email-auth/internal/handler"
)

// RegisterRoutes registers routes that do not belong to the auth
// surface. Currently it exposes only a health check, used by load
// balancers and monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication contract under /v1/auth.
// None of these routes carry authentication middleware: the current
// caller is resolved from the server-side bearer-token slot, not
// from request credentials, matching the single-client demo design.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	// The two endpoints that "send" an email are rate limited; each
	// call appends a durable log entry.
	g.POST("/register", a.Register, limit)
	g.POST("/resend", a.Resend, limit)
	g.POST("/login", a.Login)
	g.POST("/verify", a.Verify)
	g.POST("/logout", a.Logout)
	// Called once at client start-up to restore session state.
	g.GET("/me", a.Me)
}

// RegisterDebug exposes the development helpers: user and email-log
// dumps (so a developer can read the code their simulated email
// carried) and a snapshot reset. Only wire this group when APP_ENV
// is dev.
func RegisterDebug(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/debug")
	g.GET("/users", a.Users)
	g.GET("/email-logs", a.EmailLogs)
	g.POST("/reset", a.Reset)
}
