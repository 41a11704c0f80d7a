package ports

import (
	"context"

	"github.com/triviahq/gameshow-system/internal/core/domain"
)

// Session is the resolved identity attached to a request after token
// validation. Role is the cached claim from the token unless the token
// carried none, in which case it was repaired from the user store
// (RoleRepaired is true).
type Session struct {
	UserID       string
	Role         domain.Role
	RoleRepaired bool
}

// AuthService covers credential verification, token issuance, and session
// resolution.
type AuthService interface {
	// Register creates a new host-level account. Roles above host are
	// granted only through ChangeRole.
	Register(ctx context.Context, email, password, displayName string) (*domain.User, error)
	// Login verifies credentials and issues a signed token embedding the
	// user's current role.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Resolve validates a token and returns the session it asserts. A token
	// without a role claim triggers a user-store lookup; a token with one is
	// trusted for its remaining lifetime.
	Resolve(ctx context.Context, token string) (*Session, error)
	// ChangeRole sets a user's role. Takes effect for live sessions only at
	// next token issuance.
	ChangeRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error)
}
