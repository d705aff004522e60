// Package httputil provides HTTP utilities for the gateway and the auth
// service: problem responses, request parsing and common middleware.
//
// # Error Responses
//
// Every non-2xx gateway response is an application/problem+json envelope:
//
//	{
//	  "apiVersion": "1.0",
//	  "error": {
//	    "code": "404 NOT_FOUND",
//	    "message": "Artist not found",
//	    "errors": [{"domain": "/api/artist/…", "reason": "ArtistNotFound", "message": "…"}]
//	  }
//	}
//
// Helpers:
//
//	httputil.WriteBadRequest(w, r, "Validation failed", details...)
//	httputil.WriteNotFound(w, r, "ArtistNotFound", "Artist not found")
//	httputil.WriteConflict(w, r, "ArtistExists", "Artist already exists")
//
// # Request Parsing
//
//	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
//	pageable, violations := httputil.ParsePageable(r, "name")
//
// # Middleware
//
//	httputil.Chain(
//		httputil.RequestIDMiddleware,
//		httputil.LoggingMiddleware(logger),
//		httputil.RecoveryMiddleware,
//		httputil.CORSMiddleware(origins),
//		httputil.MaxBytesMiddleware(4<<20),
//	)
//
// # Related Packages
//
//   - pkg/middleware: Authentication and rate limiting middleware
package httputil
