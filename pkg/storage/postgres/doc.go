// Package postgres implements the storage repositories on PostgreSQL.
//
// Each backend service owns one schema with embedded migrations applied at
// startup by Migrate. Repositories use sqlx over lib/pq, emit a span and a
// storage metric per operation, and translate driver errors with
// storage.MapError.
//
//	db, err := postgres.Connect(ctx, postgres.ConnectionConfig{URL: dsn})
//	if err := postgres.Migrate(dsn, postgres.SchemaArtist); err != nil { ... }
//	artists := postgres.NewArtistRepository(db, metrics)
package postgres
