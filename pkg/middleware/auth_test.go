package middleware

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const (
	testIssuer   = "http://auth.test"
	testClientID = "client"
	testKeyID    = "test-key"
)

type testIssuerKeys struct {
	key    *rsa.PrivateKey
	server *httptest.Server
}

func newTestIssuerKeys(t *testing.T) *testIssuerKeys {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwks := jose.JSONWebKeySet{Keys: []jose.JSONWebKey{{Key: &key.PublicKey, KeyID: testKeyID, Algorithm: "RS256", Use: "sig"}}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(jwks)
	}))
	t.Cleanup(server.Close)

	return &testIssuerKeys{key: key, server: server}
}

func (k *testIssuerKeys) sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID
	raw, err := token.SignedString(k.key)
	require.NoError(t, err)
	return raw
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":                testIssuer,
		"aud":                testClientID,
		"sub":                "duck",
		"preferred_username": "duck",
		"scope":              "openid profile",
		"iat":                now.Unix(),
		"exp":                now.Add(time.Hour).Unix(),
	}
}

func TestOIDCVerifier_Verify(t *testing.T) {
	keys := newTestIssuerKeys(t)
	verifier := NewOIDCVerifier(context.Background(), testIssuer, keys.server.URL, testClientID)

	principal, err := verifier.Verify(context.Background(), keys.sign(t, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "duck", principal.Username)
	assert.True(t, principal.HasScope("profile"))
	assert.False(t, principal.HasScope("admin"))
	assert.WithinDuration(t, time.Now().Add(time.Hour), principal.ExpiresAt, 5*time.Second)
}

func TestOIDCVerifier_Rejects(t *testing.T) {
	keys := newTestIssuerKeys(t)
	verifier := NewOIDCVerifier(context.Background(), testIssuer, keys.server.URL, testClientID)

	tests := map[string]func(jwt.MapClaims){
		"expired":        func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Minute).Unix() },
		"wrong issuer":   func(c jwt.MapClaims) { c["iss"] = "http://evil.test" },
		"wrong audience": func(c jwt.MapClaims) { c["aud"] = "other" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			claims := validClaims()
			mutate(claims)
			_, err := verifier.Verify(context.Background(), keys.sign(t, claims))
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	t.Run("foreign key", func(t *testing.T) {
		other := newTestIssuerKeys(t)
		_, err := verifier.Verify(context.Background(), other.sign(t, validClaims()))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

type staticVerifier struct {
	principal *Principal
}

func (v staticVerifier) Verify(_ context.Context, raw string) (*Principal, error) {
	if raw != "good" {
		return nil, ErrInvalidToken
	}
	return v.principal, nil
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	if p := GetPrincipal(r.Context()); p != nil {
		w.Write([]byte(p.Username))
		return
	}
	w.Write([]byte("anonymous"))
}

func TestAuthenticate(t *testing.T) {
	handler := Authenticate(staticVerifier{principal: &Principal{Username: "duck"}})(http.HandlerFunc(whoAmI))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"anonymous", "", http.StatusOK, "anonymous"},
		{"valid token", "Bearer good", http.StatusOK, "duck"},
		{"lowercase scheme", "bearer good", http.StatusOK, "duck"},
		{"bad token", "Bearer bad", http.StatusUnauthorized, ""},
		{"basic auth", "Basic Zm9vOmJhcg==", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, rec.Body.String())
			} else {
				assert.Equal(t, "401 UNAUTHORIZED", gjson.Get(rec.Body.String(), "error.code").String())
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	handler := Authenticate(staticVerifier{principal: &Principal{Username: "duck"}})(RequireAuth(http.HandlerFunc(whoAmI)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/artist", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authentication required", gjson.Get(rec.Body.String(), "error.message").String())

	req := httptest.NewRequest(http.MethodPost, "/api/artist", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
