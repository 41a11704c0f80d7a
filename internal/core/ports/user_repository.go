package ports

import (
	"context"

	"github.com/triviahq/gameshow-system/internal/core/domain"
)

// UserRepository defines persistence for user identities. Email lookups are
// case-sensitive exact matches; email carries a unique index.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateRole mutates the user's role. This is the only role mutation
	// path; callers gate it at admin level.
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
}
