package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/shandysiswandi/vendorauth/internal/identity/entity"
	"github.com/shandysiswandi/vendorauth/internal/pkg/jwt"
)

func TestProfile(t *testing.T) {
	// Arrange
	h := newHarness(t)
	h.db.vendors["vendor@acme.com"] = entity.Vendor{ID: 9, Email: "vendor@acme.com", DisplayName: "Acme", IsActive: true}
	_, clm, err := h.jwt.Generate("vendor@acme.com")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	ctx := jwt.SetAuth(context.Background(), clm)

	// Act
	out, err := h.uc.Profile(ctx)

	// Assert
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if out.ID != 9 || out.DisplayName != "Acme" {
		t.Fatalf("unexpected profile %+v", out)
	}
}

func TestProfile_Unauthenticated(t *testing.T) {
	// Arrange
	h := newHarness(t)

	// Act
	_, err := h.uc.Profile(context.Background())

	// Assert
	assertBusiness(t, err, http.StatusUnauthorized, "Authentication required")
}

func TestProfile_Inactive(t *testing.T) {
	// Arrange
	h := newHarness(t)
	h.db.vendors["vendor@acme.com"] = entity.Vendor{ID: 9, Email: "vendor@acme.com"}
	_, clm, _ := h.jwt.Generate("vendor@acme.com")

	// Act
	_, err := h.uc.Profile(jwt.SetAuth(context.Background(), clm))

	// Assert
	assertBusiness(t, err, http.StatusForbidden, "Vendor account is not active")
}
