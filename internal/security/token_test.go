package security

import (
	"errors"
	"testing"
	"time"
)

var testSecret = []byte("test-signing-secret")

func TestJWTCodec_IssueAndVerify(t *testing.T) {
	codec := NewJWTCodec(testSecret, DefaultTokenTTL)
	t0 := time.Now().UTC().Truncate(time.Second)

	token, err := codec.Issue("user-42", "admin", t0)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}

	claims, err := codec.Verify(token, t0.Add(time.Hour))
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.Subject != "user-42" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.Role != "admin" {
		t.Fatalf("unexpected role: %s", claims.Role)
	}
	if !claims.ExpiresAt.Equal(t0.Add(DefaultTokenTTL)) {
		t.Fatalf("unexpected expiry: %v", claims.ExpiresAt)
	}
}

func TestJWTCodec_Expired(t *testing.T) {
	codec := NewJWTCodec(testSecret, DefaultTokenTTL)
	t0 := time.Now().UTC()

	token, err := codec.Issue("user-42", "user", t0)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := codec.Verify(token, t0.Add(DefaultTokenTTL+time.Second)); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTCodec_BitFlip(t *testing.T) {
	codec := NewJWTCodec(testSecret, DefaultTokenTTL)
	t0 := time.Now().UTC()

	token, err := codec.Issue("user-42", "user", t0)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// Flip one bit at every position; no tampered variant may verify.
	raw := []byte(token)
	for i := range raw {
		tampered := make([]byte, len(raw))
		copy(tampered, raw)
		tampered[i] ^= 0x01

		if _, err := codec.Verify(string(tampered), t0.Add(time.Minute)); err == nil {
			t.Fatalf("tampered token at byte %d verified", i)
		}
	}
}

func TestJWTCodec_WrongSecret(t *testing.T) {
	codec := NewJWTCodec(testSecret, DefaultTokenTTL)
	other := NewJWTCodec([]byte("a-different-secret"), DefaultTokenTTL)
	t0 := time.Now().UTC()

	token, err := codec.Issue("user-42", "user", t0)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := other.Verify(token, t0.Add(time.Minute)); !errors.Is(err, ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestJWTCodec_Malformed(t *testing.T) {
	codec := NewJWTCodec(testSecret, DefaultTokenTTL)
	now := time.Now().UTC()

	for _, garbage := range []string{"", "abc", "a.b.c", "...."} {
		if _, err := codec.Verify(garbage, now); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("expected ErrTokenMalformed for %q, got %v", garbage, err)
		}
	}
}

func TestJWTCodec_DefaultTTL(t *testing.T) {
	codec := NewJWTCodec(testSecret, 0)
	t0 := time.Now().UTC().Truncate(time.Second)

	token, err := codec.Issue("user-42", "user", t0)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	claims, err := codec.Verify(token, t0.Add(time.Minute))
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !claims.ExpiresAt.Equal(t0.Add(DefaultTokenTTL)) {
		t.Fatalf("expected 24h default TTL, got expiry %v", claims.ExpiresAt)
	}
}
