package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/identityforge/identity-api/internal/api/metrics"
	"github.com/identityforge/identity-api/internal/core/domain"
	"github.com/identityforge/identity-api/internal/core/ports"
)

// LastLoginRecorder abstracts the last-login cache (Redis). Recording is
// best-effort; a failure is logged and the login still succeeds.
type LastLoginRecorder interface {
	Touch(ctx context.Context, userID string, ts time.Time) error
}

// AuthService implements registration and login on top of the user store,
// the password hasher, and the token codec.
type AuthService struct {
	repo      ports.UserRepository
	hasher    ports.PasswordHasher
	tokens    ports.TokenCodec
	validator *CredentialValidator
	audit     ports.AuditRecorder
	lastLogin LastLoginRecorder
	log       zerolog.Logger
}

func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenCodec,
	audit ports.AuditRecorder,
	lastLogin LastLoginRecorder,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		validator: NewCredentialValidator(),
		audit:     audit,
		lastLogin: lastLogin,
		log:       log,
	}
}

// Register runs the registration pipeline: validate, pre-check uniqueness,
// hash, persist, issue token. Every stage short-circuits on failure, so a
// persisted account always carries a valid hash. The uniqueness pre-checks
// only produce a friendlier error; the store's unique indexes are what
// actually prevent duplicate accounts under concurrent registration.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	in, err := s.validator.ValidateRegistration(in)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	exists, err := s.repo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		return nil, domain.ErrUserExists
	}

	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	start := time.Now()
	hash, err := s.hasher.Hash(in.Password)
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		IsActive:     true,
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Insert(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	token, err := s.tokens.Issue(created.UserID, created.Role, now)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	s.record(ports.AuthEventInput{
		UserID:    created.UserID,
		Email:     created.Email,
		Action:    domain.AuditRegistered,
		Timestamp: now,
	})
	s.log.Info().Str("user_id", created.UserID).Str("username", created.Username).Msg("user registered")

	return &ports.AuthResult{Token: token, User: created}, nil
}

// Login runs the login pipeline: validate, look up by email, verify the
// password, issue a token. A missing account and a wrong password are
// indistinguishable from the outside.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	in, err := s.validator.ValidateLogin(in)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failed").Inc()
			s.record(ports.AuthEventInput{
				Email:     in.Email,
				Action:    domain.AuditLoginFailed,
				Timestamp: time.Now().UTC(),
			})
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := s.hasher.Verify(in.Password, user.PasswordHash)
	if err != nil {
		// A stored hash that cannot be parsed is corruption, not user error.
		// Log it loudly; the response is still the uniform 401.
		s.log.Error().Err(err).Str("user_id", user.UserID).Msg("stored password hash unreadable")
		ok = false
	}
	if !ok {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		s.record(ports.AuthEventInput{
			UserID:    user.UserID,
			Email:     user.Email,
			Action:    domain.AuditLoginFailed,
			Timestamp: time.Now().UTC(),
		})
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	token, err := s.tokens.Issue(user.UserID, user.Role, now)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if s.lastLogin != nil {
		if err := s.lastLogin.Touch(ctx, user.UserID, now); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.UserID).Msg("failed to record last login")
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.record(ports.AuthEventInput{
		UserID:    user.UserID,
		Email:     user.Email,
		Action:    domain.AuditLoginSucceeded,
		Timestamp: now,
	})

	return &ports.AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) record(event ports.AuthEventInput) {
	if s.audit != nil {
		s.audit.Record(event)
	}
}
