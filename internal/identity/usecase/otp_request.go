package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/vendorauth/internal/identity/entity"
	"github.com/shandysiswandi/vendorauth/internal/pkg/goerror"
)

type RequestChallengeInput struct {
	Email   string `validate:"required,email,max=255"`
	Company string `validate:"max=255"`
}

type RequestChallengeOutput struct {
	Email string
}

// RequestChallenge emails a fresh OTP to the vendor, provisioning the vendor on
// first contact.
func (s *Usecase) RequestChallenge(ctx context.Context, in RequestChallengeInput) (*RequestChallengeOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestChallenge")
	defer span.End()

	in.Email = strings.TrimSpace(in.Email)
	in.Company = strings.TrimSpace(in.Company)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	vendor, err := s.resolveVendor(ctx, in.Email, in.Company)
	if err != nil {
		return nil, err
	}

	if err := s.issueChallenge(ctx, vendor.Email, vendor.DisplayName); err != nil {
		return nil, err
	}

	return &RequestChallengeOutput{Email: vendor.Email}, nil
}

// resolveVendor returns the stored vendor, or creates an active one named after
// company. Existing vendors keep their stored name.
func (s *Usecase) resolveVendor(ctx context.Context, email, company string) (*entity.Vendor, error) {
	vendor, err := s.repoDB.GetVendorByEmail(ctx, email)
	if err == nil {
		return vendor, nil
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get vendor by email", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	created := entity.Vendor{
		ID:          s.uid.Generate(),
		Email:       email,
		DisplayName: lo.CoalesceOrEmpty(company, s.defaultCompany()),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.repoDB.CreateVendor(ctx, created)
	if errors.Is(err, goerror.ErrConflict) {
		winner, err := s.repoDB.GetVendorByEmail(ctx, email)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get vendor after conflict", "email", email, "error", err)
			return nil, goerror.NewServer(err)
		}
		return winner, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create vendor", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "vendor provisioned", "vendor_id", created.ID, "email", email)

	if err := s.repoMessaging.PublishVendorProvisioned(ctx, VendorProvisionedEvent{
		VendorID:    created.ID,
		Email:       created.Email,
		DisplayName: created.DisplayName,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish vendor provisioned", "vendor_id", created.ID, "error", err)
	}

	return &created, nil
}
