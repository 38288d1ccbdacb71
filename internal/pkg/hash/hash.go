// Package hash derives keyed digests for secrets that must be looked up by
// equality, such as one-time codes.
package hash

// Hash produces and checks digests of short secrets.
type Hash interface {
	Hash(str string) ([]byte, error)
	Verify(hashed, str string) bool
}
