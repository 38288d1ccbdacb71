package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/vendorauth/internal/identity/entity"
	"github.com/shandysiswandi/vendorauth/internal/pkg/goerror"
)

// issueChallenge retires every live challenge of email, stores a fresh one and
// sends its code. A failed send leaves the new challenge in place; asking for
// another code retires it.
func (s *Usecase) issueChallenge(ctx context.Context, email, contextLabel string) error {
	ctx, span := s.startSpan(ctx, "issueChallenge")
	defer span.End()

	code, err := s.otp.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "email", email, "error", err)
		return goerror.NewServer(err)
	}

	codeHash, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "email", email, "error", err)
		return goerror.NewServer(err)
	}

	now := s.clock.Now()
	ttl := s.otpTTL()
	challenge := entity.Challenge{
		ID:           s.uid.Generate(),
		Email:        email,
		ContextLabel: contextLabel,
		CodeHash:     string(codeHash),
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}

	if err := s.repoDB.IssueChallenge(ctx, challenge); err != nil {
		slog.ErrorContext(ctx, "failed to repo issue challenge", "email", email, "error", err)
		return goerror.NewServer(err)
	}
	count(ctx, s.otpIssued, 1)

	deliverCtx, cancel := context.WithTimeout(ctx, s.deliveryTimeout())
	defer cancel()

	if err := s.repoMail.SendOTP(deliverCtx, OTPDelivery{
		Email:        email,
		Code:         code,
		ContextLabel: contextLabel,
		TTL:          ttl,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to deliver otp", "email", email, "challenge_id", challenge.ID, "error", err)
		return goerror.NewBusiness("Failed to send OTP, please request a new one", goerror.CodeUnavailable)
	}

	slog.InfoContext(ctx, "otp issued", "email", email, "challenge_id", challenge.ID, "expires_at", challenge.ExpiresAt)
	return nil
}

// verifyChallenge consumes the live challenge matching code. It returns one of
// the entity challenge errors when the code cannot be accepted; any other
// error is a storage fault.
func (s *Usecase) verifyChallenge(ctx context.Context, email, code string) error {
	ctx, span := s.startSpan(ctx, "verifyChallenge")
	defer span.End()

	maxRetry := s.otpMaxRetry()

	codeHash, err := s.hmac.Hash(code)
	if err != nil {
		return err
	}

	challenge, err := s.repoDB.GetUnusedChallenge(ctx, email, string(codeHash))
	if errors.Is(err, goerror.ErrNotFound) {
		return s.recordMiss(ctx, email, maxRetry)
	}
	if err != nil {
		return err
	}

	if reason := challenge.Unusable(s.clock.Now(), maxRetry); reason != nil {
		return reason
	}

	err = s.repoDB.ConsumeChallenge(ctx, challenge.ID, email)
	if errors.Is(err, goerror.ErrNotFound) {
		// a concurrent verify consumed it first
		return entity.ErrChallengeUsed
	}
	return err
}

// recordMiss charges a wrong code against the newest live challenge of email.
func (s *Usecase) recordMiss(ctx context.Context, email string, maxRetry int32) error {
	latest, err := s.repoDB.IncrementLatestChallengeRetry(ctx, email, maxRetry)
	if errors.Is(err, goerror.ErrNotFound) {
		return entity.ErrChallengeNotFound
	}
	if err != nil {
		return err
	}

	if latest.RetryCount >= maxRetry {
		slog.WarnContext(ctx, "otp challenge exhausted", "email", email, "challenge_id", latest.ID, "retry_count", latest.RetryCount)
		return entity.ErrChallengeExhausted
	}
	return entity.ErrChallengeNotFound
}

// SweepExpiredChallenges deletes every challenge past its expiry, used or not.
func (s *Usecase) SweepExpiredChallenges(ctx context.Context) (int64, error) {
	ctx, span := s.startSpan(ctx, "SweepExpiredChallenges")
	defer span.End()

	now := s.clock.Now()
	deleted, err := s.repoDB.DeleteExpiredChallenges(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete expired challenges", "before", now, "error", err)
		return 0, goerror.NewServer(err)
	}

	count(ctx, s.otpSwept, deleted)
	slog.InfoContext(ctx, "expired otp challenges swept", "deleted", deleted, "before", now)

	return deleted, nil
}
