package ports

import (
	"time"

	"github.com/identityforge/identity-api/internal/core/domain"
)

// PasswordHasher hashes and verifies passwords. Hash must salt every call,
// so two hashes of the same password never compare equal as strings.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches the encoded hash. An error is
	// returned only for a malformed hash string, never for a plain mismatch.
	Verify(password, encodedHash string) (bool, error)
}

// TokenCodec issues and verifies signed session tokens.
type TokenCodec interface {
	Issue(subject, role string, now time.Time) (string, error)
	Verify(token string, now time.Time) (domain.Claims, error)
}

// RequestAuthenticator derives a request principal from an Authorization
// header value. Implementations are pure computation: any failure, whatever
// the root cause, is reported as domain.ErrInvalidCredentials.
type RequestAuthenticator interface {
	Authenticate(authorizationHeader string) (domain.Principal, error)
}
