package jwt

import (
	"errors"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
)

const minSecretLength = 64

// Symmetric implements JWT with a shared HMAC secret.
type Symmetric struct {
	secret    []byte
	issuer    string
	audiences []string
	ttl       time.Duration
	clock     clocker
	uuid      generator
}

// NewHS512 constructs a Symmetric JWT implementation using HS512.
func NewHS512(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) < minSecretLength {
		return nil, ErrSigningKeyTooShort
	}

	return &Symmetric{
		secret:    cfg.Secret,
		issuer:    cfg.Issuer,
		audiences: cfg.Audiences,
		ttl:       cfg.TTL,
		clock:     cfg.Clock,
		uuid:      cfg.UUID,
	}, nil
}

// Generate signs a token whose subject is email.
func (s *Symmetric) Generate(email string) (string, Claims, error) {
	if email == "" {
		return "", Claims{}, ErrSubjectRequired
	}

	now := s.clock.Now()
	claims := Claims{
		RegisteredClaims: libJWT.RegisteredClaims{
			ID:        s.uuid.Generate(),
			Subject:   email,
			Issuer:    s.issuer,
			Audience:  s.audiences,
			IssuedAt:  libJWT.NewNumericDate(now),
			NotBefore: libJWT.NewNumericDate(now),
			ExpiresAt: libJWT.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := libJWT.NewWithClaims(libJWT.SigningMethodHS512, claims).SignedString(s.secret)
	if err != nil {
		return "", Claims{}, err
	}

	return token, claims, nil
}

// Verify parses tokenStr and returns its claims.
//
// Time based checks use the injected clock so expiry is testable.
func (s *Symmetric) Verify(tokenStr string) (Claims, error) {
	var claims Claims

	token, err := libJWT.ParseWithClaims(tokenStr, &claims,
		func(*libJWT.Token) (any, error) {
			return s.secret, nil
		},
		libJWT.WithIssuer(s.issuer),
		libJWT.WithAudience(s.audiences...),
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS512.Alg()}),
		libJWT.WithIssuedAt(),
		libJWT.WithExpirationRequired(),
		libJWT.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return Claims{}, classify(err)
	}

	if !token.Valid || claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, libJWT.ErrTokenMalformed):
		return ErrTokenMalformed
	case errors.Is(err, libJWT.ErrTokenSignatureInvalid),
		errors.Is(err, libJWT.ErrTokenUnverifiable):
		return ErrTokenSignatureInvalid
	case errors.Is(err, libJWT.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrInvalidToken
	}
}
