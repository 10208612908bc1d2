package model

import "time"

// Session is the authenticated identity attached to a request.  It is
// rebuilt from the signed session token on every request and never stored
// server side.
type Session struct {
	UserID      string
	Name        string
	Image       string
	Thumbnail   string
	AccessToken string // provider access token, needed to revoke on logout
	TokenID     string // jti of the session token
	ExpiresAt   time.Time
}
