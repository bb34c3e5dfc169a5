package ports

import (
	"context"

	"github.com/identityforge/identity-api/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer into registration.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Role            string
}

// LoginInput carries login credentials from the transport layer.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is the outcome of a successful registration or login.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
}
