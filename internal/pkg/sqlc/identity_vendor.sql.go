package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createIdentityVendor = `-- name: CreateIdentityVendor :exec
INSERT INTO identity_vendors (id, email, display_name, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreateIdentityVendorParams struct {
	ID          int64
	Email       string
	DisplayName string
	IsActive    bool
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

func (q *Queries) CreateIdentityVendor(ctx context.Context, arg CreateIdentityVendorParams) error {
	_, err := q.db.Exec(ctx, createIdentityVendor,
		arg.ID,
		arg.Email,
		arg.DisplayName,
		arg.IsActive,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getIdentityVendorByEmail = `-- name: GetIdentityVendorByEmail :one
SELECT id, email, display_name, is_active, created_at, updated_at
FROM identity_vendors
WHERE email = $1
`

func (q *Queries) GetIdentityVendorByEmail(ctx context.Context, email string) (IdentityVendor, error) {
	row := q.db.QueryRow(ctx, getIdentityVendorByEmail, email)
	var i IdentityVendor
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.DisplayName,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
