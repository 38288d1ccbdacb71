package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/pquerna/otp"
)

// ErrUnsupportedDigits is returned for lengths other than six or eight.
var ErrUnsupportedDigits = errors.New("otp: digits must be 6 or 8")

// Generator produces fixed-length numeric codes.
type Generator interface {
	Generate() (string, error)
}

// Numeric is a Generator backed by a cryptographically secure source.
type Numeric struct {
	digits otp.Digits
	upper  *big.Int
	random io.Reader
}

// NewNumeric returns a generator of codes with the given number of digits.
func NewNumeric(digits otp.Digits) (*Numeric, error) {
	if digits != otp.DigitsSix && digits != otp.DigitsEight {
		return nil, ErrUnsupportedDigits
	}

	upper := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits.Length())), nil)

	return &Numeric{digits: digits, upper: upper, random: rand.Reader}, nil
}

// Generate returns a code in [0, 10^digits), zero padded.
func (g *Numeric) Generate() (string, error) {
	n, err := rand.Int(g.random, g.upper)
	if err != nil {
		return "", fmt.Errorf("otp: read random: %w", err)
	}

	return g.digits.Format(int32(n.Int64())), nil
}

// Length is the number of characters in every generated code.
func (g *Numeric) Length() int {
	return g.digits.Length()
}
