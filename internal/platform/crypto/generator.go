// File: internal/platform/crypto/generator.go
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
)

// TokenBytes is the amount of randomness behind session ids and CSRF tokens.
const TokenBytes = 32

// GenerateSecureRandomString creates a cryptographically secure random string.
// n is the number of bytes of randomness; the URL-safe encoding is longer than n.
func GenerateSecureRandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewToken returns a random string of TokenBytes bytes of entropy.
func NewToken() (string, error) {
	return GenerateSecureRandomString(TokenBytes)
}

// Equal compares two secrets in constant time. Empty values never match.
func Equal(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
