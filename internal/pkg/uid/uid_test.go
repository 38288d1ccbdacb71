package uid

import (
	"testing"

	"github.com/google/uuid"
)

func TestSnowflake_Increasing(t *testing.T) {
	// Arrange
	gen, err := NewSnowflake(1)
	if err != nil {
		t.Fatalf("NewSnowflake() error = %v", err)
	}

	// Act
	first := gen.Generate()
	second := gen.Generate()

	// Assert
	if second <= first {
		t.Fatalf("expected increasing ids, got %d then %d", first, second)
	}
}

func TestNewSnowflake_InvalidNode(t *testing.T) {
	if _, err := NewSnowflake(4096); err == nil {
		t.Fatalf("expected error for out of range node")
	}
}

func TestUUID_Version7(t *testing.T) {
	// Act
	id := NewUUID().Generate()

	// Assert
	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("uuid.Parse() error = %v", err)
	}
	if parsed.Version() != 7 {
		t.Fatalf("expected version 7, got %d", parsed.Version())
	}
}
