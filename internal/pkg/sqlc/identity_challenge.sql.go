package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const lockIdentityChallengeEmail = `-- name: LockIdentityChallengeEmail :exec
SELECT pg_advisory_xact_lock(hashtext($1))
`

func (q *Queries) LockIdentityChallengeEmail(ctx context.Context, email string) error {
	_, err := q.db.Exec(ctx, lockIdentityChallengeEmail, email)
	return err
}

const createIdentityChallenge = `-- name: CreateIdentityChallenge :exec
INSERT INTO identity_challenges (id, email, context_label, code_hash, created_at, expires_at, is_used, retry_count)
VALUES ($1, $2, $3, $4, $5, $6, FALSE, 0)
`

type CreateIdentityChallengeParams struct {
	ID           int64
	Email        string
	ContextLabel string
	CodeHash     string
	CreatedAt    pgtype.Timestamptz
	ExpiresAt    pgtype.Timestamptz
}

func (q *Queries) CreateIdentityChallenge(ctx context.Context, arg CreateIdentityChallengeParams) error {
	_, err := q.db.Exec(ctx, createIdentityChallenge,
		arg.ID,
		arg.Email,
		arg.ContextLabel,
		arg.CodeHash,
		arg.CreatedAt,
		arg.ExpiresAt,
	)
	return err
}

const invalidateIdentityChallengesByEmail = `-- name: InvalidateIdentityChallengesByEmail :execrows
UPDATE identity_challenges
SET is_used = TRUE
WHERE email = $1 AND is_used = FALSE
`

func (q *Queries) InvalidateIdentityChallengesByEmail(ctx context.Context, email string) (int64, error) {
	result, err := q.db.Exec(ctx, invalidateIdentityChallengesByEmail, email)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getIdentityUnusedChallenge = `-- name: GetIdentityUnusedChallenge :one
SELECT id, email, context_label, code_hash, created_at, expires_at, is_used, retry_count
FROM identity_challenges
WHERE email = $1 AND code_hash = $2 AND is_used = FALSE
ORDER BY created_at DESC, id DESC
LIMIT 1
`

type GetIdentityUnusedChallengeParams struct {
	Email    string
	CodeHash string
}

func (q *Queries) GetIdentityUnusedChallenge(ctx context.Context, arg GetIdentityUnusedChallengeParams) (IdentityChallenge, error) {
	row := q.db.QueryRow(ctx, getIdentityUnusedChallenge, arg.Email, arg.CodeHash)
	var i IdentityChallenge
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.ContextLabel,
		&i.CodeHash,
		&i.CreatedAt,
		&i.ExpiresAt,
		&i.IsUsed,
		&i.RetryCount,
	)
	return i, err
}

const incrementIdentityLatestChallengeRetry = `-- name: IncrementIdentityLatestChallengeRetry :one
UPDATE identity_challenges
SET retry_count = retry_count + 1,
    is_used = (retry_count + 1 >= $2::INTEGER)
WHERE is_used = FALSE AND id = (
    SELECT c.id FROM identity_challenges c
    WHERE c.email = $1 AND c.is_used = FALSE
    ORDER BY c.created_at DESC, c.id DESC
    LIMIT 1
    FOR UPDATE
)
RETURNING id, email, context_label, code_hash, created_at, expires_at, is_used, retry_count
`

type IncrementIdentityLatestChallengeRetryParams struct {
	Email    string
	MaxRetry int32
}

func (q *Queries) IncrementIdentityLatestChallengeRetry(ctx context.Context, arg IncrementIdentityLatestChallengeRetryParams) (IdentityChallenge, error) {
	row := q.db.QueryRow(ctx, incrementIdentityLatestChallengeRetry, arg.Email, arg.MaxRetry)
	var i IdentityChallenge
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.ContextLabel,
		&i.CodeHash,
		&i.CreatedAt,
		&i.ExpiresAt,
		&i.IsUsed,
		&i.RetryCount,
	)
	return i, err
}

const consumeIdentityChallenge = `-- name: ConsumeIdentityChallenge :execrows
UPDATE identity_challenges
SET is_used = TRUE
WHERE id = $1 AND email = $2 AND is_used = FALSE
`

type ConsumeIdentityChallengeParams struct {
	ID    int64
	Email string
}

func (q *Queries) ConsumeIdentityChallenge(ctx context.Context, arg ConsumeIdentityChallengeParams) (int64, error) {
	result, err := q.db.Exec(ctx, consumeIdentityChallenge, arg.ID, arg.Email)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteIdentityExpiredChallenges = `-- name: DeleteIdentityExpiredChallenges :execrows
DELETE FROM identity_challenges
WHERE expires_at < $1
`

func (q *Queries) DeleteIdentityExpiredChallenges(ctx context.Context, before pgtype.Timestamptz) (int64, error) {
	result, err := q.db.Exec(ctx, deleteIdentityExpiredChallenges, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
