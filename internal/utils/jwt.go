package utils // package utils provides session token and token sealing helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iliyamo/kakao-ledger/internal/model"
)

var (
	ErrInvalidSession = errors.New("invalid session token")
	ErrMissingSubject = errors.New("session token has no subject")
)

// SessionToken is a signed session JWT along with its id and expiry.
type SessionToken struct {
	Token string    // the serialized JWT string
	ID    string    // jti, used for the logout deny-list
	Exp   time.Time // UTC expiration time
}

// SessionIssuer signs and verifies HS256 session tokens.  The provider
// access token travels inside the token as the sealed "pat" claim.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	sealer *TokenSealer
	now    func() time.Time
}

// NewSessionIssuer returns an issuer whose tokens live for ttl.
func NewSessionIssuer(secret string, ttl time.Duration) (*SessionIssuer, error) {
	sealer, err := NewTokenSealer(secret)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	return &SessionIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		sealer: sealer,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// TTL returns the lifetime of issued tokens.
func (i *SessionIssuer) TTL() time.Duration { return i.ttl }

// Issue builds a session token for the profile.  The subject is the
// provider user id, which is also the users primary key.
func (i *SessionIssuer) Issue(p model.ExternalProfile, accessToken string) (SessionToken, error) {
	if p.ID == "" {
		return SessionToken{}, ErrMissingSubject
	}
	sealed, err := i.sealer.Seal(accessToken)
	if err != nil {
		return SessionToken{}, err
	}
	now := i.now()
	exp := now.Add(i.ttl)
	jti := uuid.NewString()

	claims := jwt.MapClaims{
		"sub":       p.ID,
		"name":      p.Name,
		"image":     p.Image,
		"thumbnail": p.Thumbnail,
		"pat":       sealed,
		"jti":       jti,
		"iat":       now.Unix(),
		"exp":       exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, ID: jti, Exp: exp}, nil
}

// Parse verifies raw and rebuilds the session it carries.  Any failure,
// including expiry or a foreign signing method, yields ErrInvalidSession.
func (i *SessionIssuer) Parse(raw string) (model.Session, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !tok.Valid {
		return model.Session{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return model.Session{}, ErrInvalidSession
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return model.Session{}, ErrMissingSubject
	}
	s := model.Session{UserID: sub}
	s.Name, _ = claims["name"].(string)
	s.Image, _ = claims["image"].(string)
	s.Thumbnail, _ = claims["thumbnail"].(string)
	s.TokenID, _ = claims["jti"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time.UTC()
	}

	if pat, _ := claims["pat"].(string); pat != "" {
		// A token that fails to open is still a valid session; logout
		// simply has nothing to revoke.
		if plain, err := i.sealer.Open(pat); err == nil {
			s.AccessToken = plain
		}
	}
	return s, nil
}
