// Package token mints and verifies the signed claims used by the sharing
// subsystem: share tokens (what access a redeemer will receive) and the
// access tokens the HTTP layer authenticates callers with. Verification is
// stateless; only the process-wide secret is needed.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/domain"
)

const (
	// ShareTTL is the fixed validity of a share token from mint time.
	ShareTTL = 2 * time.Hour

	// DefaultAccessTTL is the default lifetime of an access token.
	DefaultAccessTTL = 7 * 24 * time.Hour
)

var (
	ErrTokenExpired = errors.New("token: expired")
	ErrTokenInvalid = errors.New("token: invalid")
)

// ShareClaims describe the grant a share link carries. They are signed, never
// stored server-side, and interpreted only at redemption time.
type ShareClaims struct {
	jwt.RegisteredClaims

	ResourceID string      `json:"resource_id"`
	Kind       domain.Kind `json:"kind"`
	CanEdit    bool        `json:"can_edit"`

	// Display metadata shown on the join preview before redeeming.
	Title string `json:"title,omitempty"`
	Owner string `json:"owner,omitempty"`
}

// AccessClaims are the session claims carried by a bearer token.
type AccessClaims struct {
	jwt.RegisteredClaims

	Name string `json:"name,omitempty"`
}

// Codec signs and verifies tokens with HMAC-SHA256. The secret is injected
// at construction; there is no package-level state.
type Codec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewCodec(secret []byte, issuer string) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token: signing secret must not be empty")
	}
	return &Codec{secret: secret, issuer: issuer, now: time.Now}, nil
}

// MintShare signs share claims with the given TTL. Pure function of its
// inputs, the secret and the clock; nothing is persisted.
func (c *Codec) MintShare(claims ShareClaims, ttl time.Duration) (string, error) {
	now := c.now().UTC()
	claims.Issuer = c.issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// VerifyShare validates the signature and expiry and returns the claims.
// Returns ErrTokenExpired for an out-of-date token, ErrTokenInvalid for a
// bad signature, malformed payload, or unknown resource kind.
func (c *Codec) VerifyShare(raw string) (ShareClaims, error) {
	var claims ShareClaims
	if err := c.parse(raw, &claims); err != nil {
		return ShareClaims{}, err
	}

	if claims.ResourceID == "" {
		return ShareClaims{}, ErrTokenInvalid
	}
	if _, ok := domain.ParseKind(string(claims.Kind)); !ok {
		return ShareClaims{}, ErrTokenInvalid
	}

	return claims, nil
}

// MintAccess signs an access token for the given user.
func (c *Codec) MintAccess(userID, name string, ttl time.Duration) (string, error) {
	now := c.now().UTC()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name: name,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// VerifyAccess validates an access token and returns the caller's stable
// user id and display name. Satisfies httpx.AccessVerifier.
func (c *Codec) VerifyAccess(raw string) (userID, name string, err error) {
	var claims AccessClaims
	if err := c.parse(raw, &claims); err != nil {
		return "", "", err
	}
	if claims.Subject == "" {
		return "", "", ErrTokenInvalid
	}
	return claims.Subject, claims.Name, nil
}

func (c *Codec) parse(raw string, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		// Pin the algorithm; jwt/v5 compares signatures in constant time.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now() }))

	switch {
	case err == nil && parsed.Valid:
		return nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrTokenInvalid
	}
}
