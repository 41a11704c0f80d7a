package domain

import "time"

// Role is the closed, totally-ordered set of access tiers:
// host < producer < admin.
type Role string

const (
	RoleHost     Role = "host"
	RoleProducer Role = "producer"
	RoleAdmin    Role = "admin"
)

// roleRank defines the total order. Unknown roles rank 0 and satisfy no gate.
var roleRank = map[Role]int{
	RoleHost:     1,
	RoleProducer: 2,
	RoleAdmin:    3,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return roleRank[r] > 0
}

// AtLeast reports whether r sits at or above min in the role order.
func (r Role) AtLeast(min Role) bool {
	rank := roleRank[r]
	return rank > 0 && rank >= roleRank[min]
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
