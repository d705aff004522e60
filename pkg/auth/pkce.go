package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
)

// CodeChallengeMethodS256 is the only supported PKCE method
const CodeChallengeMethodS256 = "S256"

var (
	ErrUnsupportedChallengeMethod = errors.New("code_challenge_method must be S256")
	ErrVerifierMismatch           = errors.New("code_verifier does not match code_challenge")
)

// ChallengeS256 derives the S256 challenge of a verifier
func ChallengeS256(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// VerifyPKCE checks BASE64URL(SHA256(verifier)) == challenge
func VerifyPKCE(verifier, challenge, method string) error {
	if method != CodeChallengeMethodS256 {
		return ErrUnsupportedChallengeMethod
	}
	// RFC 7636 verifiers are 43 to 128 characters
	if len(verifier) < 43 || len(verifier) > 128 {
		return ErrVerifierMismatch
	}
	if subtle.ConstantTimeCompare([]byte(ChallengeS256(verifier)), []byte(challenge)) != 1 {
		return ErrVerifierMismatch
	}
	return nil
}
