// Package uid generates identifiers: snowflake numbers for primary keys and
// UUIDv7 strings for token and correlation IDs.
package uid

// NumberID generates sortable int64 identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}
