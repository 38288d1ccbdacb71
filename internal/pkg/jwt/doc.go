// Package jwt mints and validates the bearer credential handed out after a
// successful OTP verification.
//
// Tokens are HS512 signed, carry the vendor email as subject and are never
// persisted: validity is decided by signature, issuer, audience and expiry.
// Validation failures are reported as distinct sentinels so callers can log
// the reason while answering a single "unauthenticated" outcome.
package jwt
