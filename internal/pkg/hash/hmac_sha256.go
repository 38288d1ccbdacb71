package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// MinHMACSecretLength matches the SHA-256 block output, 32 bytes.
const MinHMACSecretLength = sha256.Size

// ErrHMACSecretTooShort is returned when the HMAC key is shorter than MinHMACSecretLength.
var ErrHMACSecretTooShort = errors.New("hash: HMAC-SHA256 secret must be at least 32 bytes")

// HMACSHA256 is a deterministic keyed hash: the same input always yields the
// same hex digest, so stored digests can be matched inside a SQL WHERE clause.
type HMACSHA256 struct {
	secret []byte
}

// NewHMACSHA256 creates a hasher keyed with secret.
func NewHMACSHA256(secret string) (*HMACSHA256, error) {
	if len(secret) < MinHMACSecretLength {
		return nil, ErrHMACSecretTooShort
	}
	return &HMACSHA256{secret: []byte(secret)}, nil
}

// Hash returns the hex encoded HMAC-SHA256 of str.
func (s *HMACSHA256) Hash(str string) ([]byte, error) {
	return s.sum(str), nil
}

// Verify reports whether hashed is the digest of str, in constant time.
func (s *HMACSHA256) Verify(hashed, str string) bool {
	return hmac.Equal([]byte(hashed), s.sum(str))
}

func (s *HMACSHA256) sum(str string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(str))
	raw := mac.Sum(nil)

	out := make([]byte, hex.EncodedLen(len(raw)))
	hex.Encode(out, raw)
	return out
}
