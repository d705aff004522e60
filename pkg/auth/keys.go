package auth

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
)

const rsaKeyBits = 2048

// Signer signs access and id tokens with one RSA key and publishes its
// public half as a JWK set
type Signer struct {
	key   *rsa.PrivateKey
	keyID string
}

// NewSigner wraps key. The key id is the RFC 7638 thumbprint of the public key.
func NewSigner(key *rsa.PrivateKey) (*Signer, error) {
	jwk := jose.JSONWebKey{Key: &key.PublicKey}
	thumbprint, err := jwk.Thumbprint(crypto.SHA256)
	if err != nil {
		return nil, fmt.Errorf("failed to compute key thumbprint: %w", err)
	}
	return &Signer{key: key, keyID: base64.RawURLEncoding.EncodeToString(thumbprint)}, nil
}

// LoadSigner reads a PEM encoded RSA private key (PKCS#1 or PKCS#8)
func LoadSigner(path string) (*Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read signing key: %w", err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signing key: %w", err)
	}
	return NewSigner(key)
}

// GenerateSigner creates a signer with a fresh key. Tokens it signs do not
// survive a restart.
func GenerateSigner() (*Signer, error) {
	key, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}
	return NewSigner(key)
}

// KeyID is the kid header of every token the signer produces
func (s *Signer) KeyID() string {
	return s.keyID
}

// Sign produces an RS256 JWT
func (s *Signer) Sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = s.keyID
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// JWKS is the public key set served at the jwks endpoint
func (s *Signer) JWKS() jose.JSONWebKeySet {
	return jose.JSONWebKeySet{Keys: []jose.JSONWebKey{{
		Key:       &s.key.PublicKey,
		KeyID:     s.keyID,
		Algorithm: string(jose.RS256),
		Use:       "sig",
	}}}
}
