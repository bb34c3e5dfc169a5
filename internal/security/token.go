package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/identityforge/identity-api/internal/core/domain"
)

// DefaultTokenTTL is how long an issued token remains valid. Tokens are
// stateless: once issued they cannot be revoked before expiry.
const DefaultTokenTTL = 24 * time.Hour

// Token verification failures. These stay internal to the process (for
// logging); every one of them is reported to clients as the same 401.
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
)

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTCodec signs and verifies HS256 session tokens. The signing secret is
// injected once at construction and never read from ambient state.
type JWTCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTCodec(secret []byte, ttl time.Duration) *JWTCodec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTCodec{secret: secret, ttl: ttl}
}

// Issue signs a token carrying {subject, role} expiring ttl after now.
func (c *JWTCodec) Issue(subject, role string, now time.Time) (string, error) {
	claims := tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks the signature and expiry of a token and returns its Claims.
// Structural garbage, a wrong algorithm, a bad signature, and an expired
// token each map to their own sentinel.
func (c *JWTCodec) Verify(token string, now time.Time) (domain.Claims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(t *jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		// Strict decoding rejects non-canonical base64, so a token differing
		// from the issued one in even a single unused padding bit fails.
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return domain.Claims{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return domain.Claims{}, ErrTokenSignatureInvalid
		default:
			return domain.Claims{}, ErrTokenMalformed
		}
	}
	if !parsed.Valid {
		return domain.Claims{}, ErrTokenSignatureInvalid
	}

	return domain.Claims{
		Subject:   claims.Subject,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
