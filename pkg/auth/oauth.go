package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/platinummonkey/rococo/pkg/httputil"
	"github.com/platinummonkey/rococo/pkg/storage"
)

// Grant types accepted at the token endpoint
const (
	GrantAuthorizationCode = "authorization_code"
	GrantRefreshToken      = "refresh_token"
)

const defaultScope = "openid"

// OAuthError is an RFC 6749 error response
type OAuthError struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func (e *OAuthError) Error() string {
	return e.Code + ": " + e.Description
}

func invalidRequest(format string, args ...interface{}) *OAuthError {
	return &OAuthError{Code: "invalid_request", Description: fmt.Sprintf(format, args...)}
}

func invalidGrant(description string) *OAuthError {
	return &OAuthError{Code: "invalid_grant", Description: description}
}

// TokenResponse is the body of a successful token request
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// AccessClaims are the claims of access and id tokens
type AccessClaims struct {
	PreferredUsername string `json:"preferred_username"`
	Scope             string `json:"scope,omitempty"`
	Nonce             string `json:"nonce,omitempty"`
	jwt.RegisteredClaims
}

// authorize handles GET /oauth2/authorize
func (s *Server) authorize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	clientID := q.Get("client_id")
	redirectURI := q.Get("redirect_uri")

	// Until client and redirect URI are trusted, errors are shown, not redirected
	if clientID != s.config.ClientID || !s.validRedirectURI(redirectURI) {
		s.render(w, r, http.StatusBadRequest, "error", page{
			Title:    "Invalid authorization request",
			Errors:   []string{"Unknown client or redirect_uri"},
			Continue: s.config.FrontendURL,
		})
		return
	}

	state := q.Get("state")
	redirectError := func(oauthErr *OAuthError) {
		target, _ := url.Parse(redirectURI)
		params := target.Query()
		params.Set("error", oauthErr.Code)
		params.Set("error_description", oauthErr.Description)
		if state != "" {
			params.Set("state", state)
		}
		target.RawQuery = params.Encode()
		http.Redirect(w, r, target.String(), http.StatusFound)
	}

	if q.Get("response_type") != "code" {
		redirectError(&OAuthError{Code: "unsupported_response_type", Description: "response_type must be code"})
		return
	}
	challenge := q.Get("code_challenge")
	if challenge == "" {
		redirectError(invalidRequest("code_challenge is required"))
		return
	}
	if method := q.Get("code_challenge_method"); method != CodeChallengeMethodS256 {
		redirectError(invalidRequest("code_challenge_method must be S256"))
		return
	}

	username, err := s.sessions.Username(r)
	if err != nil {
		http.Redirect(w, r, "/login?continue="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
		return
	}

	scope := q.Get("scope")
	if scope == "" {
		scope = defaultScope
	}
	code, err := s.tokens.GenerateCode()
	if err == nil {
		err = s.repo.SaveCode(r.Context(), &storage.AuthorizationCode{
			Code:                code,
			ClientID:            clientID,
			RedirectURI:         redirectURI,
			Username:            username,
			Scope:               scope,
			Nonce:               q.Get("nonce"),
			CodeChallenge:       challenge,
			CodeChallengeMethod: CodeChallengeMethodS256,
			ExpiresAt:           s.now().Add(s.config.CodeTTL),
		})
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to issue authorization code")
		redirectError(&OAuthError{Code: "server_error", Description: "failed to issue code"})
		return
	}

	target, _ := url.Parse(redirectURI)
	params := target.Query()
	params.Set("code", code)
	if state != "" {
		params.Set("state", state)
	}
	target.RawQuery = params.Encode()
	http.Redirect(w, r, target.String(), http.StatusFound)
}

// token handles POST /oauth2/token
func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeOAuthError(w, invalidRequest("malformed form"))
		return
	}
	form := r.PostForm
	clientID := form.Get("client_id")
	if user, _, ok := r.BasicAuth(); ok && clientID == "" {
		clientID = user
	}
	if clientID != s.config.ClientID {
		s.writeOAuthError(w, &OAuthError{Code: "invalid_client", Description: "unknown client_id"})
		return
	}

	var (
		resp *TokenResponse
		err  error
	)
	grantType := form.Get("grant_type")
	switch grantType {
	case GrantAuthorizationCode:
		resp, err = s.exchangeCode(r.Context(), clientID, form)
	case GrantRefreshToken:
		resp, err = s.refresh(r.Context(), clientID, form)
	default:
		err = &OAuthError{Code: "unsupported_grant_type", Description: "grant_type must be authorization_code or refresh_token"}
	}
	if err != nil {
		var oauthErr *OAuthError
		if !errors.As(err, &oauthErr) {
			s.logger.WithError(err).WithField("grant_type", grantType).Error("token request failed")
			oauthErr = &OAuthError{Code: "server_error", Description: "token request failed"}
		}
		s.writeOAuthError(w, oauthErr)
		return
	}

	if s.metrics != nil {
		s.metrics.TokensIssuedTotal.WithLabelValues(grantType).Inc()
	}
	w.Header().Set("Cache-Control", "no-store")
	httputil.WriteSuccess(w, resp)
}

func (s *Server) exchangeCode(ctx context.Context, clientID string, form url.Values) (*TokenResponse, error) {
	code, err := s.repo.ConsumeCode(ctx, form.Get("code"))
	if storage.IsNotFound(err) {
		return nil, invalidGrant("authorization code is invalid or was already used")
	}
	if err != nil {
		return nil, err
	}

	switch {
	case !s.now().Before(code.ExpiresAt):
		return nil, invalidGrant("authorization code expired")
	case code.ClientID != clientID:
		return nil, invalidGrant("authorization code was issued to another client")
	case code.RedirectURI != form.Get("redirect_uri"):
		return nil, invalidGrant("redirect_uri does not match the authorization request")
	}
	if err := VerifyPKCE(form.Get("code_verifier"), code.CodeChallenge, code.CodeChallengeMethod); err != nil {
		return nil, invalidGrant(err.Error())
	}

	return s.issue(ctx, code.ClientID, code.Username, code.Scope, code.Nonce)
}

func (s *Server) refresh(ctx context.Context, clientID string, form url.Values) (*TokenResponse, error) {
	raw := form.Get("refresh_token")
	if err := s.tokens.ValidateRefreshTokenFormat(raw); err != nil {
		return nil, invalidGrant("refresh token is invalid")
	}

	// Consuming rotates the token: the old one is gone whatever happens next
	stored, err := s.repo.ConsumeRefreshToken(ctx, s.tokens.HashToken(raw))
	if storage.IsNotFound(err) {
		return nil, invalidGrant("refresh token is invalid or was already used")
	}
	if err != nil {
		return nil, err
	}
	if !s.now().Before(stored.ExpiresAt) {
		return nil, invalidGrant("refresh token expired")
	}
	if stored.ClientID != clientID {
		return nil, invalidGrant("refresh token was issued to another client")
	}

	return s.issue(ctx, stored.ClientID, stored.Username, stored.Scope, "")
}

// issue signs an access token and an id token and stores a new refresh token
func (s *Server) issue(ctx context.Context, clientID, username, scope, nonce string) (*TokenResponse, error) {
	now := s.now()
	registered := jwt.RegisteredClaims{
		Issuer:    s.config.Issuer,
		Subject:   username,
		Audience:  jwt.ClaimStrings{clientID},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.AccessTokenTTL)),
		ID:        uuid.NewString(),
	}

	access, err := s.signer.Sign(AccessClaims{PreferredUsername: username, Scope: scope, RegisteredClaims: registered})
	if err != nil {
		return nil, err
	}

	resp := &TokenResponse{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.config.AccessTokenTTL / time.Second),
		Scope:       scope,
	}

	if hasScope(scope, "openid") {
		registered.ID = uuid.NewString()
		resp.IDToken, err = s.signer.Sign(AccessClaims{PreferredUsername: username, Nonce: nonce, RegisteredClaims: registered})
		if err != nil {
			return nil, err
		}
	}

	refresh, hash, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveRefreshToken(ctx, &storage.RefreshToken{
		TokenHash: hash,
		ClientID:  clientID,
		Username:  username,
		Scope:     scope,
		ExpiresAt: now.Add(s.config.RefreshTokenTTL),
	}); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	resp.RefreshToken = refresh
	return resp, nil
}

func hasScope(scope, want string) bool {
	for _, s := range strings.Fields(scope) {
		if s == want {
			return true
		}
	}
	return false
}

func (s *Server) writeOAuthError(w http.ResponseWriter, err *OAuthError) {
	status := http.StatusBadRequest
	if err.Code == "invalid_client" {
		status = http.StatusUnauthorized
	}
	if err.Code == "server_error" {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Cache-Control", "no-store")
	httputil.WriteJSON(w, status, err)
}

// jwks handles GET /oauth2/jwks
func (s *Server) jwks(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	httputil.WriteSuccess(w, s.signer.JWKS())
}

// Discovery is the OpenID provider metadata
type Discovery struct {
	Issuer                            string   `json:"issuer"`
	AuthorizationEndpoint             string   `json:"authorization_endpoint"`
	TokenEndpoint                     string   `json:"token_endpoint"`
	JWKSURI                           string   `json:"jwks_uri"`
	EndSessionEndpoint                string   `json:"end_session_endpoint"`
	ResponseTypesSupported            []string `json:"response_types_supported"`
	GrantTypesSupported               []string `json:"grant_types_supported"`
	SubjectTypesSupported             []string `json:"subject_types_supported"`
	IDTokenSigningAlgValuesSupported  []string `json:"id_token_signing_alg_values_supported"`
	CodeChallengeMethodsSupported     []string `json:"code_challenge_methods_supported"`
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported"`
	ScopesSupported                   []string `json:"scopes_supported"`
}

// discovery handles GET /.well-known/openid-configuration
func (s *Server) discovery(w http.ResponseWriter, r *http.Request) {
	issuer := s.config.Issuer
	httputil.WriteSuccess(w, Discovery{
		Issuer:                            issuer,
		AuthorizationEndpoint:             issuer + "/oauth2/authorize",
		TokenEndpoint:                     issuer + "/oauth2/token",
		JWKSURI:                           issuer + "/oauth2/jwks",
		EndSessionEndpoint:                issuer + "/logout",
		ResponseTypesSupported:            []string{"code"},
		GrantTypesSupported:               []string{GrantAuthorizationCode, GrantRefreshToken},
		SubjectTypesSupported:             []string{"public"},
		IDTokenSigningAlgValuesSupported:  []string{"RS256"},
		CodeChallengeMethodsSupported:     []string{CodeChallengeMethodS256},
		TokenEndpointAuthMethodsSupported: []string{"none"},
		ScopesSupported:                   []string{"openid"},
	})
}
