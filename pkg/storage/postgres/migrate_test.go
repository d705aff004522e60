package postgres

import (
	"io/fs"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationSource_EverySchemaHasUpAndDown(t *testing.T) {
	for _, schema := range []string{SchemaArtist, SchemaMuseum, SchemaPainting, SchemaGeo, SchemaUserdata, SchemaAuth} {
		t.Run(schema, func(t *testing.T) {
			src, err := MigrationSource(schema)
			require.NoError(t, err)

			ups, err := fs.Glob(src, "*.up.sql")
			require.NoError(t, err)
			downs, err := fs.Glob(src, "*.down.sql")
			require.NoError(t, err)

			assert.NotEmpty(t, ups)
			assert.Equal(t, len(ups), len(downs))
		})
	}
}

func TestMigrationSource_UnknownSchema(t *testing.T) {
	_, err := MigrationSource("billing")
	assert.Error(t, err)
}

func TestMigrationSource_GeoSeedsCountries(t *testing.T) {
	src, err := MigrationSource(SchemaGeo)
	require.NoError(t, err)

	seed, err := fs.ReadFile(src, "000002_seed_country.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(seed), "('France', 'FR')")
}

func TestWithMigrationsTable(t *testing.T) {
	got, err := withMigrationsTable("postgres://u:p@db:5432/rococo?sslmode=disable", "schema_migrations_artist")
	require.NoError(t, err)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	assert.Equal(t, "schema_migrations_artist", u.Query().Get("x-migrations-table"))
}
