// Package token issues and verifies the signed session tokens carried in
// Authorization headers. Tokens are stateless: nothing is stored server-side,
// so all session facts (subject, role, issue time, expiry) live in the
// claims. The one stateful check is password-change invalidation, exposed
// via Claims.StaleFor so the auth middleware can compare the token's issue
// time against the user record it just loaded.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification error kinds. Callers map these to HTTP responses; the
// distinction matters because expired and stale tokens get a "log in again"
// message while malformed tokens get a generic rejection.
var (
	// ErrMalformed means the token could not be parsed or its signature
	// did not verify.
	ErrMalformed = errors.New("malformed token")

	// ErrExpired means the token parsed and verified but its expiry has passed.
	ErrExpired = errors.New("token expired")

	// ErrStale means the token was issued before the subject's most recent
	// password change and must be re-issued.
	ErrStale = errors.New("token issued before password change")
)

// Claims is the payload embedded in every session token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the token subject (the user's ID).
func (c *Claims) UserID() string {
	return c.Subject
}

// StaleFor reports whether this token was issued before the given password
// change time. The comparison truncates the change time to whole seconds
// (matching the one-second resolution of the iat claim); a token whose iat
// is strictly before that instant is stale. A nil change time means the
// password was never changed and no token can be stale.
func (c *Claims) StaleFor(passwordChangedAt *time.Time) bool {
	if passwordChangedAt == nil || c.IssuedAt == nil {
		return false
	}
	changed := passwordChangedAt.Unix()
	return c.IssuedAt.Time.Unix() < changed
}

// Manager signs and verifies session tokens with a shared HMAC secret.
// Safe for concurrent use; configure once at startup.
type Manager struct {
	secret []byte
	ttl    time.Duration

	// now is injectable for expiry tests.
	now func() time.Time
}

// NewManager creates a token manager. secret must be non-empty and ttl
// positive.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("token: empty signing secret")
	}
	if ttl <= 0 {
		return nil, errors.New("token: invalid TTL configuration")
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue creates a signed token for the given subject and role. Expiry is
// always issue time plus the configured TTL.
func (m *Manager) Issue(userID, role string) (string, error) {
	now := m.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.secret)
}

// Verify parses and validates a token string. Returns the claims on success,
// or ErrExpired / ErrMalformed. Signature algorithm is pinned to HS256 so a
// forged token cannot downgrade to "none" or swap to an asymmetric scheme.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	)

	claims := &Claims{}
	tok, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}
	if !tok.Valid {
		return nil, ErrMalformed
	}

	return claims, nil
}
