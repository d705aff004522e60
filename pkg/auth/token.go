package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// RefreshTokenPrefix identifies Rococo refresh tokens
	RefreshTokenPrefix = "rococo_rt_"
	// TokenLength is the number of random bytes (32 bytes = 256 bits)
	TokenLength = 32
)

// TokenGenerator generates opaque authorization codes and refresh tokens
type TokenGenerator struct{}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator() *TokenGenerator {
	return &TokenGenerator{}
}

// GenerateCode creates a single-use authorization code
func (tg *TokenGenerator) GenerateCode() (string, error) {
	return randomString(TokenLength)
}

// GenerateRefreshToken creates a refresh token and the hash it is stored under.
// Format: rococo_rt_<base64url(32 random bytes)>
func (tg *TokenGenerator) GenerateRefreshToken() (token string, tokenHash string, err error) {
	encoded, err := randomString(TokenLength)
	if err != nil {
		return "", "", err
	}
	token = RefreshTokenPrefix + encoded
	return token, tg.HashToken(token), nil
}

// HashToken computes the SHA256 hash of a token for lookup
func (tg *TokenGenerator) HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// ValidateRefreshTokenFormat checks if a refresh token has the correct format
func (tg *TokenGenerator) ValidateRefreshTokenFormat(token string) error {
	if !strings.HasPrefix(token, RefreshTokenPrefix) {
		return fmt.Errorf("token must start with %q", RefreshTokenPrefix)
	}

	encodedPart := strings.TrimPrefix(token, RefreshTokenPrefix)
	if len(encodedPart) == 0 {
		return fmt.Errorf("token is too short")
	}

	if _, err := base64.RawURLEncoding.DecodeString(encodedPart); err != nil {
		return fmt.Errorf("invalid token encoding: %w", err)
	}
	return nil
}

func randomString(n int) (string, error) {
	randomBytes := make([]byte, n)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(randomBytes), nil
}
