// Package migration applies the embedded SQL schema with golang-migrate.
package migration

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // registers postgres://
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Direction selects which way Run migrates.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

var (
	// ErrDSNRequired is returned when no database URL is configured.
	ErrDSNRequired = errors.New("migration: database url is required")
	// ErrUnknownDirection is returned for anything other than Up or Down.
	ErrUnknownDirection = errors.New("migration: direction must be up or down")
)

//go:embed migrations/*.sql
var files embed.FS

// Run migrates the database behind dsn. Being already at the target version is
// not an error.
func Run(dsn string, direction Direction) error {
	if dsn == "" {
		return ErrDSNRequired
	}
	if direction != Up && direction != Down {
		return fmt.Errorf("%w: %q", ErrUnknownDirection, direction)
	}

	source, err := iofs.New(files, "migrations")
	if err != nil {
		return fmt.Errorf("migration: source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("migration: init: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if direction == Up {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration: %s: %w", direction, err)
	}

	return nil
}

// Version reports the applied schema version and whether it is dirty.
func Version(dsn string) (uint, bool, error) {
	source, err := iofs.New(files, "migrations")
	if err != nil {
		return 0, false, fmt.Errorf("migration: source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return 0, false, fmt.Errorf("migration: init: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}
