package otp

import (
	"bytes"
	"errors"
	"testing"

	"github.com/pquerna/otp"
)

func TestNumeric_Generate(t *testing.T) {
	// Arrange
	gen, err := NewNumeric(otp.DigitsSix)
	if err != nil {
		t.Fatalf("NewNumeric() error = %v", err)
	}

	for range 500 {
		// Act
		code, err := gen.Generate()

		// Assert
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 characters, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("expected digits only, got %q", code)
			}
		}
	}
}

func TestNumeric_KeepsLeadingZeros(t *testing.T) {
	// Arrange
	gen, err := NewNumeric(otp.DigitsSix)
	if err != nil {
		t.Fatalf("NewNumeric() error = %v", err)
	}
	gen.random = bytes.NewReader([]byte{0x00, 0x00, 0x2a})

	// Act
	code, err := gen.Generate()

	// Assert
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if code != "000042" {
		t.Fatalf("expected 000042, got %q", code)
	}
}

func TestNumeric_RandomSourceFailure(t *testing.T) {
	// Arrange
	gen, err := NewNumeric(otp.DigitsSix)
	if err != nil {
		t.Fatalf("NewNumeric() error = %v", err)
	}
	gen.random = bytes.NewReader(nil)

	// Act
	_, err = gen.Generate()

	// Assert
	if err == nil {
		t.Fatalf("expected error from empty random source")
	}
}

func TestNewNumeric_UnsupportedDigits(t *testing.T) {
	_, err := NewNumeric(otp.Digits(4))
	if !errors.Is(err, ErrUnsupportedDigits) {
		t.Fatalf("expected ErrUnsupportedDigits, got %v", err)
	}
}
