package service

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/identityforge/identity-api/internal/core/domain"
	"github.com/identityforge/identity-api/internal/core/ports"
)

const minPasswordLength = 8

// CredentialValidator applies the syntactic rules for registration and login
// payloads. Rules run in a fixed order and the first failing rule wins, so a
// request with several problems always reports the same cause.
type CredentialValidator struct {
	v *validator.Validate
}

func NewCredentialValidator() *CredentialValidator {
	return &CredentialValidator{v: validator.New()}
}

// ValidateRegistration checks a registration payload and returns it with the
// username trimmed. Order: email, then username/password strength, then
// password confirmation.
func (cv *CredentialValidator) ValidateRegistration(in ports.RegisterInput) (ports.RegisterInput, error) {
	if err := cv.v.Var(in.Email, "contains=@"); err != nil {
		return in, domain.ErrInvalidEmail
	}

	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || len(in.Password) < minPasswordLength {
		return in, domain.ErrWeakPassword
	}

	if in.Password != in.ConfirmPassword {
		return in, domain.ErrPasswordMismatch
	}

	return in, nil
}

// ValidateLogin guards against structurally malformed login requests only;
// whether the credentials are correct is the login flow's concern.
func (cv *CredentialValidator) ValidateLogin(in ports.LoginInput) (ports.LoginInput, error) {
	if err := cv.v.Var(in.Email, "contains=@"); err != nil {
		return in, domain.ErrInvalidEmail
	}
	if len(in.Password) < minPasswordLength {
		return in, domain.ErrWeakPassword
	}
	return in, nil
}
