package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/kakao-ledger/internal/handler"
	"github.com/iliyamo/kakao-ledger/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the Kakao login and logout flow under /auth.
// Logout is reachable without a valid session so a stale cookie can always
// be cleared.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/auth")
	g.GET("/kakao/login", a.Login)
	g.GET("/kakao/callback", a.Callback)
	g.GET("/kakao-logout", a.Logout)
	g.POST("/kakao-logout", a.Logout)
	g.GET("/kakao-logout-done", a.LogoutDone)
	g.POST("/logout", a.Logout)
}

// Protected bundles what every /api route runs before its handler.
type Protected struct {
	Sessions middleware.SessionParser
	Deny     middleware.Denylist
	// Limit runs after SessionAuth so user-keyed strategies see the user.
	// nil disables rate limiting.
	Limit echo.MiddlewareFunc
}

// group opens /api with session authentication and rate limiting.
func (p Protected) group(e *echo.Echo) *echo.Group {
	mws := []echo.MiddlewareFunc{middleware.SessionAuth(p.Sessions, p.Deny)}
	if p.Limit != nil {
		mws = append(mws, p.Limit)
	}
	return e.Group("/api", mws...)
}
