package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/vendorauth/internal/identity/entity"
	"github.com/shandysiswandi/vendorauth/internal/pkg/goerror"
	"github.com/shandysiswandi/vendorauth/internal/pkg/sqlc"
)

// IssueChallenge retires every unused challenge of the email and inserts chal
// in one transaction, so at most one challenge is live per email. Writers for
// the same email are serialised by a transaction-scoped advisory lock, since a
// concurrent insert is invisible to the other transaction's UPDATE.
func (s *DB) IssueChallenge(ctx context.Context, chal entity.Challenge) (err error) {
	ctx, span := s.startSpan(ctx, "IssueChallenge")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	wtx := s.query.WithTx(tx)

	if err := wtx.LockIdentityChallengeEmail(ctx, chal.Email); err != nil {
		return s.mapError(err)
	}

	if _, err := wtx.InvalidateIdentityChallengesByEmail(ctx, chal.Email); err != nil {
		return s.mapError(err)
	}

	if err := wtx.CreateIdentityChallenge(ctx, sqlc.CreateIdentityChallengeParams{
		ID:           chal.ID,
		Email:        chal.Email,
		ContextLabel: chal.ContextLabel,
		CodeHash:     chal.CodeHash,
		CreatedAt:    pgtype.Timestamptz{Valid: true, Time: chal.CreatedAt},
		ExpiresAt:    pgtype.Timestamptz{Valid: true, Time: chal.ExpiresAt},
	}); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

// ConsumeChallenge marks the challenge used together with any other unused
// challenge of the email. It returns goerror.ErrNotFound when the challenge
// was already used.
func (s *DB) ConsumeChallenge(ctx context.Context, id int64, email string) (err error) {
	ctx, span := s.startSpan(ctx, "ConsumeChallenge")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	wtx := s.query.WithTx(tx)

	if err := wtx.LockIdentityChallengeEmail(ctx, email); err != nil {
		return s.mapError(err)
	}

	rows, err := wtx.ConsumeIdentityChallenge(ctx, sqlc.ConsumeIdentityChallengeParams{
		ID:    id,
		Email: email,
	})
	if err != nil {
		return s.mapError(err)
	}

	if rows == 0 {
		return goerror.ErrNotFound
	}

	if _, err := wtx.InvalidateIdentityChallengesByEmail(ctx, email); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
