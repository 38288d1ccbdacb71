package entity

import (
	"errors"
	"time"
)

var (
	ErrChallengeNotFound  = errors.New("identity: no live challenge matches the code")
	ErrChallengeExpired   = errors.New("identity: challenge expired")
	ErrChallengeExhausted = errors.New("identity: challenge retry limit reached")
	ErrChallengeUsed      = errors.New("identity: challenge already used")
	ErrVendorMissing      = errors.New("identity: vendor missing after successful verification")
)

// Challenge is one issued OTP. Only the HMAC of the code is kept.
type Challenge struct {
	ID           int64
	Email        string
	ContextLabel string
	CodeHash     string
	CreatedAt    time.Time
	ExpiresAt    time.Time
	IsUsed       bool
	RetryCount   int32
}

// IsUsableAt reports whether the challenge can still be verified at now.
// The expiry instant itself is still inside the window.
func (c Challenge) IsUsableAt(now time.Time, maxRetry int32) bool {
	return c.Unusable(now, maxRetry) == nil
}

// Unusable returns the reason the challenge cannot be verified at now, or nil.
func (c Challenge) Unusable(now time.Time, maxRetry int32) error {
	switch {
	case c.IsUsed:
		return ErrChallengeUsed
	case now.After(c.ExpiresAt):
		return ErrChallengeExpired
	case c.RetryCount >= maxRetry:
		return ErrChallengeExhausted
	default:
		return nil
	}
}
