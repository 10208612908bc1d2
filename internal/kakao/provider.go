// Package kakao wires the Kakao OAuth provider into goth and turns its
// login result into the canonical model.ExternalProfile.  Nothing outside
// this package sees goth or Kakao payload field names.
package kakao

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/kakao"

	"github.com/iliyamo/kakao-ledger/internal/model"
)

const ProviderName = "kakao"

// Config carries the settings InitProvider needs.
type Config struct {
	ClientID      string
	ClientSecret  string
	CallbackURL   string
	SessionSecret string // signs gothic's short-lived state cookie
	Secure        bool
}

// InitProvider configures gothic's cookie store and registers the Kakao
// provider.  It reports false when no client id is configured, in which
// case the login routes answer 503.
func InitProvider(cfg Config) bool {
	// gothic keeps the OAuth state in its own gorilla/sessions store,
	// separate from the ledger session cookie.
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	gothic.Store = store

	if cfg.ClientID == "" {
		slog.Warn("KAKAO_CLIENT_ID not set, login is disabled until credentials are configured")
		return false
	}
	goth.UseProviders(kakao.New(cfg.ClientID, cfg.ClientSecret, cfg.CallbackURL))
	slog.Info("goth providers initialized", "providers", ProviderName)
	return true
}

// withProvider adds the query parameter gothic uses to pick the provider.
func withProvider(r *http.Request) {
	q := r.URL.Query()
	q.Set("provider", ProviderName)
	r.URL.RawQuery = q.Encode()
}

// AuthURL starts the OAuth flow and returns the authorization URL.  With
// forceLogin the provider is asked to show its login form even when the
// browser still has a Kakao session, so logging out of the ledger really
// lets another account sign in.
func AuthURL(w http.ResponseWriter, r *http.Request, forceLogin bool) (string, error) {
	withProvider(r)
	raw, err := gothic.GetAuthURL(w, r)
	if err != nil {
		return "", err
	}
	if !forceLogin {
		return raw, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("prompt", "login")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// CompleteAuth finishes the OAuth flow on the callback request.
func CompleteAuth(w http.ResponseWriter, r *http.Request) (model.ExternalProfile, string, error) {
	withProvider(r)
	u, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		return model.ExternalProfile{}, "", err
	}
	return ProfileFromUser(u), u.AccessToken, nil
}

// ClearState drops gothic's state cookie.
func ClearState(w http.ResponseWriter, r *http.Request) {
	withProvider(r)
	_ = gothic.Logout(w, r)
}

// ProfileFromUser normalises a goth user into an ExternalProfile.  Kakao
// reports the display fields both under "properties" and under
// "kakao_account.profile" depending on app consent settings, so both are
// consulted when goth's own fields are empty.
func ProfileFromUser(u goth.User) model.ExternalProfile {
	p := model.ExternalProfile{
		Provider: ProviderName,
		ID:       u.UserID,
		Name:     firstNonEmpty(u.Name, u.NickName),
		Image:    u.AvatarURL,
	}

	var thumb string
	if props, ok := u.RawData["properties"].(map[string]any); ok {
		p.Name = firstNonEmpty(p.Name, str(props["nickname"]))
		p.Image = firstNonEmpty(p.Image, str(props["profile_image"]))
		thumb = str(props["thumbnail_image"])
	}
	if acct, ok := u.RawData["kakao_account"].(map[string]any); ok {
		if prof, ok := acct["profile"].(map[string]any); ok {
			p.Name = firstNonEmpty(p.Name, str(prof["nickname"]))
			p.Image = firstNonEmpty(p.Image, str(prof["profile_image_url"]))
			thumb = firstNonEmpty(thumb, str(prof["thumbnail_image_url"]))
		}
	}
	p.Thumbnail = firstNonEmpty(thumb, p.Image)
	return p
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
