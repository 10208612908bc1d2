package model

import "time"

// User mirrors the external identity that logged in.  The ID is the
// provider-assigned identifier (Kakao's numeric id rendered as a string) so
// the session subject and the users primary key are the same value.
//
// Fields:
//
//	ID        – provider user id, primary key.
//	Name      – display name reported by the provider at first login.
//	Image     – avatar URL, refreshed whenever the provider reports a new one.
//	CreatedAt – first login.
//	UpdatedAt – last profile change.
type User struct {
	ID        string    `json:"id"`         // users.id
	Name      string    `json:"name"`       // users.name
	Image     string    `json:"image"`      // users.image
	CreatedAt time.Time `json:"created_at"` // users.created_at
	UpdatedAt time.Time `json:"updated_at"` // users.updated_at
}

// ExternalProfile is the one canonical shape of a login result.  Provider
// payloads are normalised into it at the boundary and nothing past the auth
// handler sees provider field names.
type ExternalProfile struct {
	Provider  string // e.g. "kakao"
	ID        string // provider user id
	Name      string
	Image     string // full-size avatar URL
	Thumbnail string // thumbnail avatar URL, falls back to Image
}

// SyncResult reports what an identity sync changed.
type SyncResult struct {
	Created      bool // a new users row was inserted
	SeededCount  int  // default categories inserted alongside a new user
	ImageUpdated bool // stored avatar differed and was replaced
}
