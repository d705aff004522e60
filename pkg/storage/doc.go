// Package storage defines the persistence contracts of the Rococo services.
//
// # Repositories
//
// Each backend owns one repository interface (ArtistRepository,
// MuseumRepository, PaintingRepository, CountryRepository, UserRepository)
// and the auth service owns AuthRepository. Implementations live in
// pkg/storage/postgres.
//
// Cross-service references (a painting's artist and museum, a museum's
// country) are stored as bare ids. They are not foreign keys because each
// service owns its own database; the gateway checks them before writes.
//
// # Errors
//
// Repositories return errors wrapping ErrNotFound or ErrConflict:
//
//	artist, err := repo.FindByID(ctx, id)
//	if storage.IsNotFound(err) {
//		return status.Error(codes.NotFound, "artist not found")
//	}
//
// MapError converts sql.ErrNoRows and PostgreSQL unique violations (SQLSTATE
// 23505) into these sentinels.
//
// # Redis
//
// RedisClient wraps the shared Redis connection used for user events,
// distributed rate limiting and the second tier of TieredCache.
//
//	countries := storage.NewTieredCache[model.Country]("country", 512, 10*time.Minute, redisClient, metrics)
//
// # Related Packages
//
//   - pkg/storage/postgres: PostgreSQL repositories and migrations
//   - pkg/media: Photo storage
package storage
