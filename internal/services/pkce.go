// PKCE helpers for the authorization code flow (RFC 7636).
package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/mikehinnen/spotify-cycling-sorter/internal/shared"
)

// verifierAlphabet is the subset of the RFC 7636 unreserved charset used for
// verifiers. The full 62-character alphanumeric range gives ~5.95 bits per
// character; `-._~` add nothing worth the awkward escaping.
const verifierAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const (
	// MinVerifierLength and MaxVerifierLength bound verifier sizes per RFC 7636 §4.1.
	MinVerifierLength = 43
	MaxVerifierLength = 128

	// DefaultVerifierLength is used by BeginLogin.
	DefaultVerifierLength = 128
)

// GenerateVerifier draws length cryptographically random bytes and maps each
// onto the verifier alphabet.
//
// Fails only when the platform's secure random source is unavailable; that
// error wraps [shared.ErrCryptoUnavailable] and is fatal, not retryable.
func GenerateVerifier(length int) (string, error) {
	if length < MinVerifierLength || length > MaxVerifierLength {
		return "", fmt.Errorf("%w: verifier length %d outside [%d,%d]",
			shared.ErrInvalidInput, length, MinVerifierLength, MaxVerifierLength)
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrCryptoUnavailable, err)
	}

	for i, b := range buf {
		buf[i] = verifierAlphabet[int(b)%len(verifierAlphabet)]
	}

	return string(buf), nil
}

// DeriveChallenge computes the S256 code challenge for a verifier:
// base64url(SHA-256(verifier)) without padding. Deterministic and pure.
func DeriveChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
