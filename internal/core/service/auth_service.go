package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/triviahq/gameshow-system/internal/core/domain"
	"github.com/triviahq/gameshow-system/internal/core/ports"
)

// Claims is the payload carried by a session token. Role is a cached copy
// of the user's role at issuance time and is trusted for the token's
// lifetime; a role change by an admin becomes visible to a live session
// only at the next issuance.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// AuthService implements credential verification, token issuance, and
// session resolution.
type AuthService struct {
	users     ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Register creates a host-level account. Producer and admin roles are
// granted only through ChangeRole by an admin.
func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.Infra("hash password", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		Role:         domain.RoleHost,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, domain.Infra("create user", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user registered")
	return created, nil
}

// Login verifies credentials and issues a token embedding the user's
// current role. Verification fails closed: unknown email and accounts
// without a stored hash both produce ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.verify(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, domain.Infra("sign token", err)
	}
	return token, user, nil
}

// verify is the credential verifier: case-sensitive email lookup, then a
// constant-time hash comparison. Pure read, no side effects.
func (s *AuthService) verify(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.Infra("find user", err)
	}

	// External-identity accounts store no hash and can never log in with a
	// password.
	if user.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Resolve validates a token and returns the session it asserts.
//
// Tokens issued by this service always carry a role claim, which is trusted
// as-is until expiry. A token without one (issued before roles existed, or
// stripped) is repaired with a single point read of the user's current
// role. Either way a deleted user under a live token resolves to
// ErrSessionResolution.
func (s *AuthService) Resolve(ctx context.Context, token string) (*ports.Session, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidCredentials
	}
	if claims.Subject == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if claims.Role != "" {
		role := domain.Role(claims.Role)
		if !role.Valid() {
			return nil, domain.ErrInvalidCredentials
		}
		return &ports.Session{UserID: claims.Subject, Role: role}, nil
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrSessionResolution
		}
		return nil, domain.Infra("resolve session", err)
	}

	s.log.Debug().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("repaired missing role claim")
	return &ports.Session{UserID: user.ID, Role: user.Role, RoleRepaired: true}, nil
}

// ChangeRole sets a user's role. Already-issued tokens keep their cached
// role until they expire or the user logs in again.
func (s *AuthService) ChangeRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	updated, err := s.users.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, domain.Infra("update role", err)
	}

	s.log.Info().Str("user_id", userID).Str("role", string(role)).Msg("role changed")
	return updated, nil
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
