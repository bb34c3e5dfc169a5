package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/identityforge/identity-api/internal/core/domain"
	"github.com/identityforge/identity-api/internal/core/ports"
	"github.com/identityforge/identity-api/internal/security"
)

type stubUserRepo struct {
	byEmail map[string]*domain.User
	nextID  int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range r.byEmail {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.byEmail {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.UserID = fmt.Sprintf("user-%d", r.nextID)
	r.byEmail[created.Email] = cloneUser(created)
	return created, nil
}

func newTestAuthService(repo ports.UserRepository) *AuthService {
	return NewAuthService(
		repo,
		security.NewArgon2Hasher(),
		security.NewJWTCodec([]byte("test-secret"), time.Hour),
		nil,
		nil,
		zerolog.Nop(),
	)
}

func registerInput() ports.RegisterInput {
	return ports.RegisterInput{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "longpass1",
		ConfirmPassword: "longpass1",
		FirstName:       "Alice",
		LastName:        "A",
		Role:            "user",
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	result, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if result.User.UserID == "" {
		t.Fatalf("expected assigned user id")
	}
	if !result.User.IsActive {
		t.Fatalf("expected new account to be active")
	}
	if result.User.PasswordHash == "longpass1" || !strings.HasPrefix(result.User.PasswordHash, "$argon2id$") {
		t.Fatalf("expected argon2id hash, got %q", result.User.PasswordHash)
	}

	codec := security.NewJWTCodec([]byte("test-secret"), time.Hour)
	claims, err := codec.Verify(result.Token, time.Now())
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Subject != result.User.UserID || claims.Role != "user" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Register_ValidationShortCircuits(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	in := registerInput()
	in.ConfirmPassword = "otherpass1"
	if _, err := svc.Register(context.Background(), in); err != domain.ErrPasswordMismatch {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if len(repo.byEmail) != 0 {
		t.Fatalf("no account may be persisted after a validation failure")
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	in := registerInput()
	in.Email = "other@example.com"
	if _, err := svc.Register(context.Background(), in); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists for duplicate username, got %v", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	in := registerInput()
	in.Username = "alice2"
	if _, err := svc.Register(context.Background(), in); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists for duplicate email, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), ports.LoginInput{
		Email:    "alice@example.com",
		Password: "longpass1",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if result.User.Username != "alice" {
		t.Fatalf("unexpected user: %+v", result.User)
	}
}

func TestAuthService_Login_UniformFailure(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Wrong password for an existing account and an unknown account must be
	// indistinguishable.
	_, wrongPass := svc.Login(context.Background(), ports.LoginInput{
		Email:    "alice@example.com",
		Password: "wrongpass1",
	})
	_, noAccount := svc.Login(context.Background(), ports.LoginInput{
		Email:    "ghost@example.com",
		Password: "wrongpass1",
	})

	if wrongPass != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPass)
	}
	if noAccount != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown account, got %v", noAccount)
	}
}

func TestAuthService_Login_CorruptStoredHash(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	repo.byEmail["broken@example.com"] = &domain.User{
		UserID:       "u1",
		Username:     "broken",
		Email:        "broken@example.com",
		PasswordHash: "not-a-phc-string",
	}

	// Corruption is logged internally but the caller sees the uniform failure.
	if _, err := svc.Login(context.Background(), ports.LoginInput{
		Email:    "broken@example.com",
		Password: "longpass1",
	}); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_RecordsAudit(t *testing.T) {
	repo := newStubUserRepo()
	events := make(chan ports.AuthEventInput, 8)
	svc := NewAuthService(
		repo,
		security.NewArgon2Hasher(),
		security.NewJWTCodec([]byte("test-secret"), time.Hour),
		recorderFunc(func(e ports.AuthEventInput) { events <- e }),
		nil,
		zerolog.Nop(),
	)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if got := <-events; got.Action != domain.AuditRegistered {
		t.Fatalf("expected registered event, got %q", got.Action)
	}

	if _, err := svc.Login(context.Background(), ports.LoginInput{
		Email:    "alice@example.com",
		Password: "wrongpass1",
	}); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if got := <-events; got.Action != domain.AuditLoginFailed {
		t.Fatalf("expected login_failed event, got %q", got.Action)
	}
}

type recorderFunc func(ports.AuthEventInput)

func (f recorderFunc) Record(e ports.AuthEventInput) { f(e) }
