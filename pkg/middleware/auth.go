package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/platinummonkey/rococo/pkg/contextkeys"
	"github.com/platinummonkey/rococo/pkg/httputil"
	"github.com/platinummonkey/rococo/pkg/observability"
)

// ErrInvalidToken is returned for bearer tokens that fail verification
var ErrInvalidToken = errors.New("invalid or expired token")

// Principal is the authenticated caller of a request
type Principal struct {
	Username  string
	Scopes    []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasScope reports whether the token was granted scope
func (p *Principal) HasScope(scope string) bool {
	for _, s := range p.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// TokenVerifier turns a raw bearer token into a Principal
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Principal, error)
}

// OIDCVerifier verifies RS256 access tokens against the authorization
// server's published key set
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// accessClaims are the claims beyond the registered ones read from a token
type accessClaims struct {
	PreferredUsername string `json:"preferred_username"`
	Scope             string `json:"scope"`
}

// NewOIDCVerifier creates a verifier fetching keys from jwksURL. ctx bounds
// the key fetches and should live as long as the verifier.
func NewOIDCVerifier(ctx context.Context, issuerURL, jwksURL, clientID string) *OIDCVerifier {
	keySet := oidc.NewRemoteKeySet(ctx, jwksURL)
	return &OIDCVerifier{
		verifier: oidc.NewVerifier(issuerURL, keySet, &oidc.Config{ClientID: clientID}),
	}
}

// Verify checks signature, issuer, audience and expiry
func (v *OIDCVerifier) Verify(ctx context.Context, rawToken string) (*Principal, error) {
	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims accessClaims
	if err := token.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	username := claims.PreferredUsername
	if username == "" {
		username = token.Subject
	}

	return &Principal{
		Username:  username,
		Scopes:    strings.Fields(claims.Scope),
		IssuedAt:  token.IssuedAt,
		ExpiresAt: token.Expiry,
	}, nil
}

// Authenticate verifies the bearer token when one is sent and stores the
// Principal in the request context. Requests without a token pass through
// anonymously; requests with a bad token are rejected.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Format: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				httputil.WriteUnauthorized(w, r, "invalid authorization header format")
				return
			}

			principal, err := verifier.Verify(r.Context(), parts[1])
			if err != nil {
				observability.FromContext(r.Context()).WithError(err).Info("bearer token rejected")
				httputil.WriteUnauthorized(w, r, ErrInvalidToken.Error())
				return
			}

			ctx := contextkeys.WithPrincipal(r.Context(), principal)
			ctx = contextkeys.WithUsername(ctx, principal.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetPrincipal(r.Context()) == nil {
			httputil.WriteUnauthorized(w, r, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetPrincipal returns the authenticated caller, nil when anonymous
func GetPrincipal(ctx context.Context) *Principal {
	principal, _ := contextkeys.GetPrincipal(ctx).(*Principal)
	return principal
}
