// Package middleware provides the gateway's HTTP middleware for
// authentication and rate limiting.
//
// # Authentication
//
// Authenticate verifies "Authorization: Bearer <jwt>" with a TokenVerifier
// and stores the Principal in the request context. OIDCVerifier checks
// RS256 tokens against the auth service JWKS:
//
//	verifier := middleware.NewOIDCVerifier(ctx, issuer, issuer+"/oauth2/jwks", "client")
//	router.Use(middleware.Authenticate(verifier))
//	router.Handle("/api/user", middleware.RequireAuth(userHandler))
//
// # Rate Limiting
//
// RateLimit keys clients by username or IP. RateLimiter is an in-process
// token bucket (golang.org/x/time/rate); DistributedRateLimiter is a Redis
// fixed window shared by all instances.
//
//	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimitConfig())
//	router.Use(middleware.RateLimit(limiter, metrics))
package middleware
