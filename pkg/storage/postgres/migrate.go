package postgres

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres:// driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Schemas with embedded migrations, one per service database
const (
	SchemaArtist   = "artist"
	SchemaMuseum   = "museum"
	SchemaPainting = "painting"
	SchemaGeo      = "geo"
	SchemaUserdata = "userdata"
	SchemaAuth     = "auth"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrationSource returns the embedded migrations of one schema
func MigrationSource(schema string) (fs.FS, error) {
	sub, err := fs.Sub(migrationsFS, "migrations/"+schema)
	if err != nil {
		return nil, fmt.Errorf("no migrations for schema %s: %w", schema, err)
	}
	if _, err := fs.Stat(sub, "."); err != nil {
		return nil, fmt.Errorf("no migrations for schema %s: %w", schema, err)
	}
	return sub, nil
}

// Migrate applies every pending migration of a schema. Each schema keeps its
// own version table so services may share a database in development.
func Migrate(databaseURL, schema string) error {
	if _, err := MigrationSource(schema); err != nil {
		return err
	}
	source, err := iofs.New(migrationsFS, "migrations/"+schema)
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	target, err := withMigrationsTable(databaseURL, "schema_migrations_"+schema)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, target)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply %s migrations: %w", schema, err)
	}
	return nil
}

func withMigrationsTable(databaseURL, table string) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid database URL: %w", err)
	}
	q := u.Query()
	q.Set("x-migrations-table", table)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
