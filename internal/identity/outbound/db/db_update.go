package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/vendorauth/internal/identity/entity"
	"github.com/shandysiswandi/vendorauth/internal/pkg/sqlc"
)

// IncrementLatestChallengeRetry charges one failed attempt to the newest
// unused challenge of email and retires it once maxRetry is reached.
func (s *DB) IncrementLatestChallengeRetry(ctx context.Context, email string, maxRetry int32) (_ *entity.Challenge, err error) {
	ctx, span := s.startSpan(ctx, "IncrementLatestChallengeRetry")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.IncrementIdentityLatestChallengeRetry(ctx, sqlc.IncrementIdentityLatestChallengeRetryParams{
		Email:    email,
		MaxRetry: maxRetry,
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return toChallenge(row), nil
}

func (s *DB) DeleteExpiredChallenges(ctx context.Context, now time.Time) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteExpiredChallenges")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.query.DeleteIdentityExpiredChallenges(ctx, pgtype.Timestamptz{Valid: true, Time: now})
	if err != nil {
		return 0, s.mapError(err)
	}

	return rows, nil
}
