// Package session issues and verifies the signed, stateless admin session
// tokens carried in the admin_session cookie.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of an issued token.
const DefaultTTL = 7 * 24 * time.Hour

var (
	ErrInvalidSignature = errors.New("session: invalid signature")
	ErrExpired          = errors.New("session: token expired")
	ErrMalformed        = errors.New("session: malformed token")
)

var errUnknownKey = errors.New("unknown signing key")

// Claims is the payload of a session token. Nothing in it is secret.
type Claims struct {
	AdminID string `json:"adminId"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	jwt.RegisteredClaims
}

type signingKey struct {
	id     string
	secret []byte
}

// Authority signs tokens with its newest key and accepts tokens signed by any
// of its keys. Keys are fixed at construction.
type Authority struct {
	keys []signingKey
	byID map[string][]byte
	ttl  time.Duration
	now  func() time.Time
}

type Option func(*Authority)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(a *Authority) {
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

// WithClock injects the time source used for iat, exp and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(a *Authority) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAuthority builds an Authority from secrets ordered newest first.
func NewAuthority(secrets []string, opts ...Option) (*Authority, error) {
	a := &Authority{
		byID: make(map[string][]byte),
		ttl:  DefaultTTL,
		now:  time.Now,
	}

	for _, s := range secrets {
		if s == "" {
			continue
		}
		key := signingKey{id: keyID(s), secret: []byte(s)}
		if _, dup := a.byID[key.id]; dup {
			continue
		}
		a.keys = append(a.keys, key)
		a.byID[key.id] = key.secret
	}
	if len(a.keys) == 0 {
		return nil, fmt.Errorf("session: at least one signing secret is required")
	}

	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// keyID fingerprints a secret so tokens can name their key without revealing it.
func keyID(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:6])
}

func (a *Authority) TTL() time.Duration {
	return a.ttl
}

// Issue signs a token for the given admin, valid from now until now+TTL.
func (a *Authority) Issue(adminID, email, name string) (string, *Claims, error) {
	issuedAt := time.Unix(a.now().Unix(), 0)

	claims := &Claims{
		AdminID: adminID,
		Email:   email,
		Name:    name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(a.ttl)),
		},
	}

	current := a.keys[0]
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = current.id

	signed, err := token.SignedString(current.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return signed, claims, nil
}

// Verify checks the signature and expiry of a token and returns its claims.
// Errors are always one of ErrMalformed, ErrInvalidSignature or ErrExpired.
func (a *Authority) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMalformed
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, a.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, classify(err)
	}
	if claims.AdminID == "" {
		return nil, ErrMalformed
	}
	return claims, nil
}

// Revoke is a no-op: tokens are stateless and stay valid until they expire.
// Logout clears the cookie on the client.
func (a *Authority) Revoke(token string) error {
	return nil
}

func (a *Authority) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}

	if kid, ok := token.Header["kid"].(string); ok {
		secret, found := a.byID[kid]
		if !found {
			return nil, errUnknownKey
		}
		return secret, nil
	}

	set := jwt.VerificationKeySet{Keys: make([]jwt.VerificationKey, 0, len(a.keys))}
	for _, k := range a.keys {
		set.Keys = append(set.Keys, k.secret)
	}
	return set, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, errUnknownKey):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return ErrMalformed
	}
}
