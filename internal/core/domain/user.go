package domain

import (
	"errors"
	"time"
)

// User models a registered account. PasswordHash is the PHC-encoded output of
// the password hasher and is never serialized into API responses.
type User struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsActive     bool      `json:"is_active"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validation failures, reported as specific 400-class causes.
var ErrInvalidEmail = errors.New("email must contain @")
var ErrWeakPassword = errors.New("username must not be empty and password must be at least 8 characters")
var ErrPasswordMismatch = errors.New("passwords do not match")

// ErrUserExists signals a username/email uniqueness conflict.
var ErrUserExists = errors.New("user already exists")

// ErrUserNotFound is internal only; at the login boundary it is flattened
// into ErrInvalidCredentials before leaving the flow.
var ErrUserNotFound = errors.New("user not found")

// ErrInvalidCredentials is the single auth-failure value. Account-not-found,
// wrong password, and every token failure all collapse into it so responses
// cannot be used to enumerate accounts or probe token internals.
var ErrInvalidCredentials = errors.New("unauthorized")
