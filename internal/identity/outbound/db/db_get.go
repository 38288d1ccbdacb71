package db

import (
	"context"

	"github.com/shandysiswandi/vendorauth/internal/identity/entity"
	"github.com/shandysiswandi/vendorauth/internal/pkg/sqlc"
)

func (s *DB) GetVendorByEmail(ctx context.Context, email string) (_ *entity.Vendor, err error) {
	ctx, span := s.startSpan(ctx, "GetVendorByEmail")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.GetIdentityVendorByEmail(ctx, email)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &entity.Vendor{
		ID:          row.ID,
		Email:       row.Email,
		DisplayName: row.DisplayName,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt.Time.UTC(),
		UpdatedAt:   row.UpdatedAt.Time.UTC(),
	}, nil
}

func (s *DB) GetUnusedChallenge(ctx context.Context, email, codeHash string) (_ *entity.Challenge, err error) {
	ctx, span := s.startSpan(ctx, "GetUnusedChallenge")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.GetIdentityUnusedChallenge(ctx, sqlc.GetIdentityUnusedChallengeParams{
		Email:    email,
		CodeHash: codeHash,
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return toChallenge(row), nil
}
