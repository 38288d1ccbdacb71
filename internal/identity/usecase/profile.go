package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/vendorauth/internal/pkg/goerror"
	"github.com/shandysiswandi/vendorauth/internal/pkg/jwt"
)

type ProfileOutput struct {
	ID          int64
	Email       string
	DisplayName string
	IsActive    bool
	CreatedAt   time.Time
}

// Profile returns the vendor behind the bearer token.
func (s *Usecase) Profile(ctx context.Context) (*ProfileOutput, error) {
	ctx, span := s.startSpan(ctx, "Profile")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	vendor, err := s.repoDB.GetVendorByEmail(ctx, clm.Email())
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "token subject has no vendor", "email", clm.Email())
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get vendor by email", "email", clm.Email(), "error", err)
		return nil, goerror.NewServer(err)
	}

	if !vendor.IsActive {
		return nil, goerror.NewBusiness("Vendor account is not active", goerror.CodeForbidden)
	}

	return &ProfileOutput{
		ID:          vendor.ID,
		Email:       vendor.Email,
		DisplayName: vendor.DisplayName,
		IsActive:    vendor.IsActive,
		CreatedAt:   vendor.CreatedAt,
	}, nil
}
