package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSigningKeyTooShort is returned when the HS512 signing key is less than 64 bytes.
	ErrSigningKeyTooShort = errors.New("jwt: HS512 signing key must be at least 64 bytes (512 bits)")

	// ErrSubjectRequired is returned when minting a token without a subject.
	ErrSubjectRequired = errors.New("jwt: subject is required")

	// ErrTokenMalformed is returned when the token cannot be parsed at all.
	ErrTokenMalformed = errors.New("jwt: token is malformed")

	// ErrTokenSignatureInvalid is returned when the signature or algorithm does not match.
	ErrTokenSignatureInvalid = errors.New("jwt: token signature is invalid")

	// ErrTokenExpired is returned when the token is past its expiry.
	ErrTokenExpired = errors.New("jwt: token has expired")

	// ErrInvalidToken is returned for any other claim failure (issuer, audience, not-before).
	ErrInvalidToken = errors.New("jwt: invalid token")
)

// JWT mints and validates credentials bound to an email address.
type JWT interface {
	Generate(email string) (string, Claims, error)
	Verify(tokenStr string) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

type jwtContextKey struct{}

// Config holds the inputs for NewHS512. The secret is read once at startup.
type Config struct {
	Secret    []byte
	Issuer    string
	Audiences []string
	TTL       time.Duration
	Clock     clocker
	UUID      generator
}

// Claims are the registered claims; Subject is the vendor email.
type Claims struct {
	jwt.RegisteredClaims
}

// Email returns the subject address.
func (c Claims) Email() string {
	return c.Subject
}

// GetAuth returns the claims stored by the auth middleware, if any.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(jwtContextKey{}).(Claims)
	if !ok {
		return nil
	}

	return &clm
}

// SetAuth stores claims in the context.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, jwtContextKey{}, clm)
}
