// Package security implements the cryptographic primitives of the credential
// lifecycle: Argon2id password hashing and HMAC-signed session tokens.
package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters (OWASP-recommended).
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4
	argonSaltLen = 16
	argonKeyLen  = 32
)

// ErrHashMalformed reports a stored hash that cannot be parsed. It is kept
// distinct from a plain mismatch so corruption can be logged instead of being
// silently reported as a wrong password.
var ErrHashMalformed = errors.New("malformed password hash")

// Argon2Hasher implements ports.PasswordHasher using Argon2id with
// PHC-format encoding.
type Argon2Hasher struct{}

func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{}
}

// Hash derives an Argon2id digest of the password under a fresh random salt
// and encodes parameters, salt, and digest as a single PHC string:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<digest>
func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	digest := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory,
		argonTime,
		argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)
	return encoded, nil
}

// Verify reparses the embedded parameters, recomputes the digest, and
// compares in constant time. A hash that cannot be parsed yields
// ErrHashMalformed; a clean mismatch yields (false, nil).
func (h *Argon2Hasher) Verify(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrHashMalformed
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, ErrHashMalformed
	}
	if version != argon2.Version {
		return false, ErrHashMalformed
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, ErrHashMalformed
	}
	if threads == 0 || threads > 255 {
		return false, ErrHashMalformed
	}
	// argon2.IDKey panics on parameters below its minimums; reject them as
	// corrupt rather than crashing on stored data.
	if time == 0 || memory < 8*threads {
		return false, ErrHashMalformed
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrHashMalformed
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, ErrHashMalformed
	}
	if len(expected) == 0 || len(expected) > 1<<10 {
		return false, ErrHashMalformed
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, uint8(threads), uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}
