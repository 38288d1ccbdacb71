// Package clock hides time.Now behind an interface so expiry rules can be
// tested against a fixed instant.
package clock

import "time"

// Clocker reports the current time.
type Clocker interface {
	Now() time.Time
}

// TimeClocker is the wall-clock implementation.
type TimeClocker struct{}

// New returns a TimeClocker.
func New() *TimeClocker {
	return &TimeClocker{}
}

// Now returns time.Now in UTC.
func (*TimeClocker) Now() time.Time {
	return time.Now().UTC()
}
