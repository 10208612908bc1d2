package middleware // package middleware contains the request chain shared by the ledger routes

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/kakao-ledger/internal/logging"
	"github.com/iliyamo/kakao-ledger/internal/model"
	"github.com/iliyamo/kakao-ledger/internal/utils"
)

// SessionCookie is the cookie carrying the session token for browsers.
const SessionCookie = "ledger_session"

const sessionKey = "session"

// SessionParser is the part of utils.SessionIssuer the middleware needs.
type SessionParser interface {
	Parse(raw string) (model.Session, error)
}

var _ SessionParser = (*utils.SessionIssuer)(nil)

// SessionAuth validates the session token from the Authorization header or
// the session cookie and exposes the session to handlers via SessionFrom.
// Tokens whose id was deny-listed at logout are rejected.  A deny-list
// lookup error lets the request through: Redis being down must not log
// everybody out.
func SessionAuth(parser SessionParser, deny Denylist) echo.MiddlewareFunc {
	if deny == nil {
		deny = NopDenylist{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := TokenFromRequest(c)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			s, err := parser.Parse(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if s.TokenID != "" {
				revoked, err := deny.IsRevoked(c.Request().Context(), s.TokenID)
				if err != nil {
					slog.Warn("deny-list lookup failed", "error", err)
				} else if revoked {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
				}
			}

			c.Set(sessionKey, s)
			c.Set(logging.UserIDKey, s.UserID)
			return next(c)
		}
	}
}

// TokenFromRequest returns the bearer token, falling back to the cookie.
func TokenFromRequest(c echo.Context) string {
	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if ck, err := c.Cookie(SessionCookie); err == nil {
		return ck.Value
	}
	return ""
}

// SessionFrom returns the session SessionAuth stored on c.
func SessionFrom(c echo.Context) (model.Session, bool) {
	s, ok := c.Get(sessionKey).(model.Session)
	return s, ok && s.UserID != ""
}
