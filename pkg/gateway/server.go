package gateway

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/rococo/pkg/httputil"
	"github.com/platinummonkey/rococo/pkg/media"
	"github.com/platinummonkey/rococo/pkg/middleware"
	"github.com/platinummonkey/rococo/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxBodyBytes leaves room for a base64 encoded photo plus the other fields
const maxBodyBytes = 4 << 20

// Backends are the gRPC-backed services the gateway composes
type Backends struct {
	Artists   ArtistService
	Museums   MuseumService
	Paintings PaintingService
	Countries CountryService
	Users     UserService
}

// Options configures the gateway's HTTP surface
type Options struct {
	Verifier       middleware.TokenVerifier
	Limiter        middleware.Limiter // nil disables rate limiting
	Logger         *observability.Logger
	Metrics        *observability.Metrics // nil disables HTTP metrics
	AllowedOrigins []string
	MaxPhotoBytes  int
}

// Server is the REST gateway
type Server struct {
	router  *mux.Router
	handler http.Handler
}

// NewServer creates the gateway and registers every route
func NewServer(backends Backends, opts Options) *Server {
	if opts.MaxPhotoBytes <= 0 {
		opts.MaxPhotoBytes = media.DefaultMaxPhotoBytes
	}
	if opts.Logger == nil {
		opts.Logger = observability.NewLogger(observability.InfoLevel, nil)
	}

	s := &Server{router: mux.NewRouter()}
	sanitizer := NewSanitizer()
	composer := NewComposer(backends.Artists, backends.Museums, backends.Countries)

	NewArtistHandlers(backends.Artists, sanitizer, opts.MaxPhotoBytes).RegisterRoutes(s.router)
	NewMuseumHandlers(backends.Museums, composer, sanitizer, opts.MaxPhotoBytes).RegisterRoutes(s.router)
	NewPaintingHandlers(backends.Paintings, composer, sanitizer, opts.MaxPhotoBytes).RegisterRoutes(s.router)
	NewCountryHandlers(backends.Countries).RegisterRoutes(s.router)
	NewUserHandlers(backends.Users, sanitizer, opts.MaxPhotoBytes).RegisterRoutes(s.router)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteNotFound(w, r, "RouteNotFound", "no route for "+r.URL.Path)
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteProblem(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Route-aware middleware runs inside the router
	if opts.Metrics != nil {
		s.router.Use(observability.HTTPMetricsMiddleware(opts.Metrics))
	}

	chain := []func(http.Handler) http.Handler{
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(opts.Logger),
		httputil.RecoveryMiddleware,
		httputil.CORSMiddleware(opts.AllowedOrigins),
		httputil.MaxBytesMiddleware(maxBodyBytes),
		httputil.ContentTypeMiddleware,
		middleware.Authenticate(opts.Verifier),
	}
	if opts.Limiter != nil {
		chain = append(chain, middleware.RateLimit(opts.Limiter, opts.Metrics))
	}
	s.handler = otelhttp.NewHandler(httputil.Chain(chain...)(s.router), "rococo-gateway")
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// authed wraps a handler that needs a signed-in caller
func authed(fn http.HandlerFunc) http.Handler {
	return middleware.RequireAuth(fn)
}
