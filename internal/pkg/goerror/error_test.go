package goerror

import (
	"errors"
	"net/http"
	"testing"
)

func TestError_StatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "Server", err: NewServer(errors.New("db down")), want: http.StatusInternalServerError},
		{name: "Unauthorized", err: NewBusiness("Invalid or expired OTP", CodeUnauthorized), want: http.StatusUnauthorized},
		{name: "Forbidden", err: NewBusiness("inactive", CodeForbidden), want: http.StatusForbidden},
		{name: "Unavailable", err: NewBusiness("mail down", CodeUnavailable), want: http.StatusServiceUnavailable},
		{name: "InvalidInput", err: NewInvalidInput(nil, "email", "email is required"), want: http.StatusUnprocessableEntity},
		{name: "InvalidFormat", err: NewInvalidFormat(), want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			var gerr *Error

			// Act
			ok := errors.As(tt.err, &gerr)

			// Assert
			if !ok {
				t.Fatalf("expected *Error, got %T", tt.err)
			}
			if got := gerr.StatusCode(); got != tt.want {
				t.Fatalf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewServer_KeepsCauseAndHidesMessage(t *testing.T) {
	// Arrange
	cause := errors.New("connection refused")

	// Act
	err := NewServer(cause)

	// Assert
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be wrapped")
	}
	var gerr *Error
	if !errors.As(err, &gerr) || gerr.Msg() != "Internal server error" {
		t.Fatalf("unexpected message: %v", gerr)
	}
}

func TestNewInvalidInput_OddPairs(t *testing.T) {
	// Act
	err := NewInvalidInput(nil, "email")

	// Assert
	var gerr *Error
	if !errors.As(err, &gerr) || gerr.Code() != CodeInvalidFormat {
		t.Fatalf("expected invalid format, got %v", err)
	}
}
