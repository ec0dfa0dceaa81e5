package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer builds and verifies compact HS256-signed bearer tokens.
// The signing secret is fixed at construction and never rewritten at runtime,
// so concurrent use needs no synchronization. Issuance and validation are pure
// functions of (claims, secret, now).
type Issuer struct {
	secret   []byte
	duration time.Duration
}

// Claims is the token payload: subject, granted authorities and the
// issued-at/expiry pair. Tokens are never persisted.
type Claims struct {
	Authorities []string `json:"authorities"`
	jwt.RegisteredClaims
}

var errEmptySecret = errors.New("tokens: signing secret is required")

// NewIssuer creates an issuer with the process-wide secret and token lifetime.
// A non-positive duration is allowed and yields immediately expired tokens.
func NewIssuer(secret string, duration time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errEmptySecret
	}
	return &Issuer{
		secret:   []byte(secret),
		duration: duration,
	}, nil
}

// Issue signs a token for subject with the given authority list.
// Expiry is iat+duration; with a non-positive duration the token is already
// expired at issue time, which validation must report as invalid.
func (i *Issuer) Issue(subject string, authorities []string, now time.Time) (string, error) {
	now = now.UTC()
	claims := Claims{
		Authorities: append([]string(nil), authorities...),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.duration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// ExpiresAt reports the expiry an issued token would carry at the given
// issue instant. Callers use it to echo expiry alongside the token.
func (i *Issuer) ExpiresAt(now time.Time) time.Time {
	return now.UTC().Add(i.duration)
}

// Validate reports whether token carries a verifiable signature and is not
// expired at now. It fails closed: malformed tokens, unexpected signing
// methods and claim errors all yield false, never an error.
func (i *Issuer) Validate(token string, now time.Time) bool {
	_, err := i.parse(token, now)
	return err == nil
}

// Subject extracts the subject from a verified token.
func (i *Issuer) Subject(token string, now time.Time) (string, error) {
	claims, err := i.parse(token, now)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Authorities extracts the authority list from a verified token.
func (i *Issuer) Authorities(token string, now time.Time) ([]string, error) {
	claims, err := i.parse(token, now)
	if err != nil {
		return nil, err
	}
	return claims.Authorities, nil
}

// IsExpired reports exp <= now for a structurally parseable token. The
// signature is not checked here; expiry is a claim read, not a trust decision.
func (i *Issuer) IsExpired(token string, now time.Time) bool {
	claims := Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return !claims.ExpiresAt.Time.After(now.UTC())
}

func (i *Issuer) parse(token string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now.UTC() }),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
