package middleware

import "github.com/labstack/echo/v4"

// currentUserID returns the authenticated user id for cache and rate limit
// keys, or "anon" before SessionAuth ran.
func currentUserID(c echo.Context) string {
	if s, ok := SessionFrom(c); ok {
		return s.UserID
	}
	return "anon"
}
