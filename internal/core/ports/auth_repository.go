package ports

import (
	"context"

	"github.com/identityforge/identity-api/internal/core/domain"
)

// UserRepository defines the persistence contract for user accounts.
// Insert must report a username/email uniqueness violation as
// domain.ErrUserExists; the store's unique constraint, not any pre-check,
// is the actual correctness guarantee under concurrent registrations.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
}
