package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/vendorauth/internal/identity/entity"
	"github.com/shandysiswandi/vendorauth/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const tokenTypeBearer = "Bearer"

type VerifyChallengeInput struct {
	Email string `validate:"required,email,max=255"`
	Code  string `validate:"required,otpcode"`
}

type VerifyChallengeOutput struct {
	Token     string
	TokenType string
	Email     string
	ExpiresAt time.Time
}

// VerifyChallenge consumes the emailed code and mints a bearer token for the
// vendor. Wrong, expired and exhausted codes are indistinguishable to the caller.
func (s *Usecase) VerifyChallenge(ctx context.Context, in VerifyChallengeInput) (*VerifyChallengeOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyChallenge")
	defer span.End()

	in.Email = strings.TrimSpace(in.Email)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if err := s.verifyChallenge(ctx, in.Email, in.Code); err != nil {
		if outcome, ok := challengeOutcome(err); ok {
			s.countVerify(ctx, outcome)
			slog.WarnContext(ctx, "otp verification rejected", "email", in.Email, "reason", outcome)
			return nil, goerror.NewBusiness("Invalid or expired OTP", goerror.CodeUnauthorized)
		}
		slog.ErrorContext(ctx, "failed to verify otp challenge", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	vendor, err := s.repoDB.GetVendorByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "vendor missing after otp verification", "email", in.Email)
		return nil, goerror.NewServer(entity.ErrVendorMissing)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get vendor by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !vendor.IsActive {
		s.countVerify(ctx, "inactive")
		slog.WarnContext(ctx, "inactive vendor verified otp", "vendor_id", vendor.ID)
		return nil, goerror.NewBusiness("Vendor account is not active", goerror.CodeForbidden)
	}

	token, claims, err := s.jwt.Generate(vendor.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access token", "vendor_id", vendor.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.countVerify(ctx, "success")
	slog.InfoContext(ctx, "vendor authenticated", "vendor_id", vendor.ID, "token_id", claims.ID)

	if err := s.repoMessaging.PublishVendorAuthenticated(ctx, VendorAuthenticatedEvent{
		VendorID:  vendor.ID,
		Email:     vendor.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish vendor authenticated", "vendor_id", vendor.ID, "error", err)
	}

	return &VerifyChallengeOutput{
		Token:     token,
		TokenType: tokenTypeBearer,
		Email:     vendor.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *Usecase) countVerify(ctx context.Context, outcome string) {
	count(ctx, s.otpVerified, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// challengeOutcome names a rejected code for logs and metrics. ok is false for
// storage faults.
func challengeOutcome(err error) (string, bool) {
	switch {
	case errors.Is(err, entity.ErrChallengeNotFound):
		return "not_found", true
	case errors.Is(err, entity.ErrChallengeExpired):
		return "expired", true
	case errors.Is(err, entity.ErrChallengeExhausted):
		return "exhausted", true
	case errors.Is(err, entity.ErrChallengeUsed):
		return "used", true
	default:
		return "", false
	}
}
