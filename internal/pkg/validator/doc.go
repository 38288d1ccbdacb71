// Package validator checks request structs against `validate` tags.
//
// Failures come back as V10ValidationError, a snake_case field to message map
// that the router renders in the error envelope.
package validator
