package kakao

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

var ErrNoAccessToken = errors.New("no provider access token to revoke")

// Revoker ends the user's Kakao session by calling the logout API with the
// access token as bearer credential.
type Revoker struct {
	url     string
	base    *http.Client
	timeout time.Duration
}

// NewRevoker returns a Revoker posting to logoutURL.  base may be nil.
func NewRevoker(logoutURL string, base *http.Client) *Revoker {
	return &Revoker{url: logoutURL, base: base, timeout: 5 * time.Second}
}

// Revoke makes exactly one attempt.  A non-2xx answer is returned as an
// error carrying the start of the response body.
func (r *Revoker) Revoke(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return ErrNoAccessToken
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if r.base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, r.base)
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, nil)
	if err != nil {
		return fmt.Errorf("build revoke request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("revoke request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("revoke failed: status %d: %s", resp.StatusCode, body)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
