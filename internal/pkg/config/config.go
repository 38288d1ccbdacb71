// Package config reads runtime settings by dotted key (for example
// "modules.identity.otp_ttl_minutes").
package config

import (
	"io"
	"time"
)

// Config is the read-only view of the service configuration.
//
// Missing keys yield the zero value of the requested type; callers that need
// a default apply it themselves.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt32(key string) int32
	GetFloat64(key string) float64

	// GetSecond reads an integer and scales it to seconds.
	GetSecond(key string) time.Duration
	// GetMinute reads an integer and scales it to minutes.
	GetMinute(key string) time.Duration

	// GetArray reads a comma separated string ("a,b,c"). Blank items are dropped.
	GetArray(key string) []string
}
