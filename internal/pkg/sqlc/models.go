package sqlc

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type IdentityVendor struct {
	ID          int64
	Email       string
	DisplayName string
	IsActive    bool
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

type IdentityChallenge struct {
	ID           int64
	Email        string
	ContextLabel string
	CodeHash     string
	CreatedAt    pgtype.Timestamptz
	ExpiresAt    pgtype.Timestamptz
	IsUsed       bool
	RetryCount   int32
}
