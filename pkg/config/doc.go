// Package config provides application configuration management for every
// Rococo binary.
//
// # Overview
//
// Configuration is layered: role defaults, then an optional YAML file named by
// ROCOCO_CONFIG_FILE, then environment variables. A .env file in the working
// directory is loaded first so local development needs no exported variables.
//
//	cfg, err := config.LoadConfig(config.RoleGateway)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Roles
//
// Each binary loads with its Role, which selects default ports and the
// validation rules (the gateway needs backend addresses, the auth service
// needs redirect URIs, backends need a database URL).
//
// # Environment Variables
//
//	ROCOCO_PORT, ROCOCO_HEALTH_PORT       listeners
//	ROCOCO_DATABASE_URL                   PostgreSQL DSN
//	ROCOCO_REDIS_URL                      Redis for events, cache and rate limits
//	ROCOCO_MEDIA_BACKEND                  inline | s3
//	ROCOCO_ARTIST_ADDR ... _USERDATA_ADDR backend gRPC addresses (gateway)
//	ROCOCO_AUTH_ISSUER                    OAuth2 issuer URL
//	ROCOCO_LOG_LEVEL                      debug | info | warn | error
//
// # Related Packages
//
//   - pkg/observability: Logging and tracing setup
//   - pkg/storage: Database and cache wiring
package config
