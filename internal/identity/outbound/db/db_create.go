package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/vendorauth/internal/identity/entity"
	"github.com/shandysiswandi/vendorauth/internal/pkg/sqlc"
)

func (s *DB) CreateVendor(ctx context.Context, in entity.Vendor) (err error) {
	ctx, span := s.startSpan(ctx, "CreateVendor")
	defer func() { s.endSpan(span, err) }()

	return s.mapError(s.query.CreateIdentityVendor(ctx, sqlc.CreateIdentityVendorParams{
		ID:          in.ID,
		Email:       in.Email,
		DisplayName: in.DisplayName,
		IsActive:    in.IsActive,
		CreatedAt:   pgtype.Timestamptz{Valid: true, Time: in.CreatedAt},
		UpdatedAt:   pgtype.Timestamptz{Valid: true, Time: in.UpdatedAt},
	}))
}
