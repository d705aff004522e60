package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/rococo/pkg/httputil"
	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/platinummonkey/rococo/pkg/storage"
)

// Defaults applied to zero Config durations
const (
	DefaultCodeTTL         = 5 * time.Minute
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
	DefaultSessionTTL      = 12 * time.Hour
)

// RegistrationPublisher announces newly registered usernames
type RegistrationPublisher interface {
	UserRegistered(ctx context.Context, username string) error
}

// Config configures the authorization server
type Config struct {
	// Issuer is the public base URL, also the iss claim of every token
	Issuer          string
	ClientID        string
	RedirectURIs    []string
	FrontendURL     string
	SessionSecret   string
	SessionTTL      time.Duration
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	CodeTTL         time.Duration
}

func (c *Config) applyDefaults() {
	c.Issuer = strings.TrimRight(c.Issuer, "/")
	if c.CodeTTL <= 0 {
		c.CodeTTL = DefaultCodeTTL
	}
	if c.AccessTokenTTL <= 0 {
		c.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if c.RefreshTokenTTL <= 0 {
		c.RefreshTokenTTL = DefaultRefreshTokenTTL
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = DefaultSessionTTL
	}
	if c.FrontendURL == "" {
		c.FrontendURL = "/"
	}
}

// Server is the OAuth2 authorization server: registration, form login,
// the authorization code + PKCE flow and the key set
type Server struct {
	config    Config
	repo      storage.AuthRepository
	signer    *Signer
	sessions  *Sessions
	tokens    *TokenGenerator
	publisher RegistrationPublisher
	logger    *observability.Logger
	metrics   *observability.Metrics
	now       func() time.Time
}

// NewServer creates the authorization server. publisher and metrics may be nil.
func NewServer(config Config, repo storage.AuthRepository, signer *Signer, publisher RegistrationPublisher, logger *observability.Logger, metrics *observability.Metrics) *Server {
	config.applyDefaults()
	return &Server{
		config:    config,
		repo:      repo,
		signer:    signer,
		sessions:  NewSessions(config.SessionSecret, config.SessionTTL, strings.HasPrefix(config.Issuer, "https://")),
		tokens:    NewTokenGenerator(),
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// RegisterRoutes registers the authorization server routes
func (s *Server) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/register", s.registerForm).Methods("GET")
	router.HandleFunc("/register", s.register).Methods("POST")
	router.HandleFunc("/login", s.loginForm).Methods("GET")
	router.HandleFunc("/login", s.login).Methods("POST")
	router.HandleFunc("/logout", s.logout).Methods("GET", "POST")

	router.HandleFunc("/oauth2/authorize", s.authorize).Methods("GET")
	router.HandleFunc("/oauth2/token", s.token).Methods("POST")
	router.HandleFunc("/oauth2/jwks", s.jwks).Methods("GET")
	router.HandleFunc("/.well-known/openid-configuration", s.discovery).Methods("GET")
}

// Handler returns the routes wrapped in the request middleware
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	s.RegisterRoutes(router)
	if s.metrics != nil {
		router.Use(observability.HTTPMetricsMiddleware(s.metrics))
	}
	return httputil.Chain(
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(s.logger),
		httputil.RecoveryMiddleware,
	)(router)
}

func (s *Server) validRedirectURI(uri string) bool {
	for _, allowed := range s.config.RedirectURIs {
		if allowed == uri {
			return true
		}
	}
	return false
}
