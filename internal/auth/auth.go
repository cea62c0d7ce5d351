// Package auth checks the static shared bearer secret guarding the CGM routes.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"

	"github.com/pkg/errors"
)

// Scheme is the only accepted Authorization scheme.
const Scheme = "Bearer"

var (
	ErrMissingCredentials = errors.New("missing authorization header")
	ErrInvalidScheme      = errors.New("authorization scheme must be Bearer")
)

// Verify reports whether provided matches expected. The comparison runs over
// fixed-size digests in constant time, so neither content nor length leaks
// through timing. An empty expected secret never matches.
func Verify(provided, expected string) bool {
	if expected == "" {
		return false
	}
	p := sha256.Sum256([]byte(provided))
	e := sha256.Sum256([]byte(expected))
	return subtle.ConstantTimeCompare(p[:], e[:]) == 1
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingCredentials
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], Scheme) {
		return "", ErrInvalidScheme
	}

	return strings.TrimSpace(parts[1]), nil
}
