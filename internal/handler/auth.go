package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/kakao-ledger/internal/kakao"
	"github.com/iliyamo/kakao-ledger/internal/middleware"
	"github.com/iliyamo/kakao-ledger/internal/model"
	"github.com/iliyamo/kakao-ledger/internal/utils"
)

// Syncer mirrors a login into local state.  service.IdentitySync.
type Syncer interface {
	Sync(ctx context.Context, p model.ExternalProfile) model.SyncResult
}

// Revoker ends the provider-side session.  kakao.Revoker.
type Revoker interface {
	Revoke(ctx context.Context, accessToken string) error
}

// AuthHandler bundles dependencies for the login and logout endpoints.
type AuthHandler struct {
	Issuer          *utils.SessionIssuer
	Sync            Syncer
	Revoker         Revoker
	Deny            middleware.Denylist
	RedirectURL     string // browser landing page after login and logout
	CookieSecure    bool
	ProviderEnabled bool
	log             *slog.Logger
}

func NewAuthHandler(issuer *utils.SessionIssuer, sync Syncer, rev Revoker, deny middleware.Denylist) *AuthHandler {
	if deny == nil {
		deny = middleware.NopDenylist{}
	}
	return &AuthHandler{
		Issuer:          issuer,
		Sync:            sync,
		Revoker:         rev,
		Deny:            deny,
		RedirectURL:     "/",
		ProviderEnabled: true,
		log:             slog.With("component", "auth"),
	}
}

// ----- DTOs -----

type loginResp struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      meResp    `json:"user"`
	NewUser   bool      `json:"new_user"`
}

type meResp struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"profile_image"`
	Thumbnail string    `json:"thumbnail_image_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles GET /auth/kakao/login by redirecting to Kakao.  The login
// form is always shown so a logged-out user can switch accounts.
func (h *AuthHandler) Login(c echo.Context) error {
	if !h.ProviderEnabled {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "kakao login is not configured"})
	}
	target, err := kakao.AuthURL(c.Response(), c.Request(), true)
	if err != nil {
		h.log.Error("begin oauth failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start login"})
	}
	return c.Redirect(http.StatusTemporaryRedirect, target)
}

// Callback handles GET /auth/kakao/callback.
func (h *AuthHandler) Callback(c echo.Context) error {
	if !h.ProviderEnabled {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "kakao login is not configured"})
	}
	profile, accessToken, err := kakao.CompleteAuth(c.Response(), c.Request())
	if err != nil {
		h.log.Warn("complete oauth failed", "error", err)
		return c.Redirect(http.StatusFound, h.landing("error", "auth_failed"))
	}
	return h.completeLogin(c, profile, accessToken)
}

// completeLogin syncs the identity, mints the session and hands it to the
// client: as a cookie plus redirect for browsers, as JSON for API clients.
func (h *AuthHandler) completeLogin(c echo.Context, p model.ExternalProfile, accessToken string) error {
	res := h.Sync.Sync(c.Request().Context(), p)

	tok, err := h.Issuer.Issue(p, accessToken)
	if err != nil {
		h.log.Error("issue session failed", "user_id", p.ID, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue session"})
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		MaxAge:   int(time.Until(tok.Exp).Seconds()),
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	h.log.Info("login succeeded", "user_id", p.ID, "new_user", res.Created)

	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) {
		return c.JSON(http.StatusOK, loginResp{
			Token:     tok.Token,
			ExpiresAt: tok.Exp,
			User:      meResp{ID: p.ID, Name: p.Name, Image: p.Image, Thumbnail: p.Thumbnail, ExpiresAt: tok.Exp},
			NewUser:   res.Created,
		})
	}
	return c.Redirect(http.StatusFound, h.landing("", ""))
}

// Logout handles /auth/kakao-logout and /auth/logout.  The local session
// is always cleared first; the provider revoke is tried once afterwards
// and its failure is only logged.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.clearCookie(c)

	raw := middleware.TokenFromRequest(c)
	if raw == "" {
		return c.JSON(http.StatusOK, echo.Map{"success": true})
	}
	s, err := h.Issuer.Parse(raw)
	if err != nil {
		// Expired or forged: nothing to revoke, the cookie is gone anyway.
		return c.JSON(http.StatusOK, echo.Map{"success": true})
	}

	ctx := context.WithoutCancel(c.Request().Context())
	if s.TokenID != "" {
		if err := h.Deny.Revoke(ctx, s.TokenID, s.ExpiresAt); err != nil {
			h.log.Warn("deny-list session failed", "user_id", s.UserID, "error", err)
		}
	}
	if h.Revoker != nil {
		err := h.Revoker.Revoke(ctx, s.AccessToken)
		switch {
		case errors.Is(err, kakao.ErrNoAccessToken):
		case err != nil:
			h.log.Warn("kakao logout failed", "user_id", s.UserID, "error", err)
		default:
			h.log.Info("kakao logout succeeded", "user_id", s.UserID)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// LogoutDone handles GET /auth/kakao-logout-done, the provider's
// post-logout redirect target.
func (h *AuthHandler) LogoutDone(c echo.Context) error {
	h.clearCookie(c)
	if h.ProviderEnabled {
		kakao.ClearState(c.Response(), c.Request())
	}
	return c.Redirect(http.StatusFound, h.landing("", ""))
}

// Me handles GET /api/me.
func (h *AuthHandler) Me(c echo.Context) error {
	s, err := getSession(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, meResp{
		ID:        s.UserID,
		Name:      s.Name,
		Image:     s.Image,
		Thumbnail: s.Thumbnail,
		ExpiresAt: s.ExpiresAt,
	})
}

func (h *AuthHandler) clearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// landing returns RedirectURL, optionally with one query parameter.
func (h *AuthHandler) landing(key, value string) string {
	target := h.RedirectURL
	if target == "" {
		target = "/"
	}
	if key == "" {
		return target
	}
	u, err := url.Parse(target)
	if err != nil {
		return "/?" + url.Values{key: {value}}.Encode()
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
