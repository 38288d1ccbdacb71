package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/vendorauth/internal/identity/entity"
	"github.com/shandysiswandi/vendorauth/internal/pkg/goerror"
	"github.com/shandysiswandi/vendorauth/internal/pkg/instrument"
	"github.com/shandysiswandi/vendorauth/internal/pkg/sqlc"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type DB struct {
	conn  *pgxpool.Pool
	query *sqlc.Queries
	ins   instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{
		conn:  conn,
		query: sqlc.New(conn),
		ins:   ins,
	}
}

// - 23505 unique violation → goerror.ErrConflict
// - no rows → goerror.ErrNotFound
func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return goerror.ErrConflict
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func toChallenge(row sqlc.IdentityChallenge) *entity.Challenge {
	return &entity.Challenge{
		ID:           row.ID,
		Email:        row.Email,
		ContextLabel: row.ContextLabel,
		CodeHash:     row.CodeHash,
		CreatedAt:    row.CreatedAt.Time.UTC(),
		ExpiresAt:    row.ExpiresAt.Time.UTC(),
		IsUsed:       row.IsUsed,
		RetryCount:   row.RetryCount,
	}
}
