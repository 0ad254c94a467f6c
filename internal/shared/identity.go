package shared

// Role is the closed set of account roles.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleCashier Role = "cashier"
)

// Valid reports whether the role is a known member of the set.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleCashier
}

// Identity describes the authenticated caller as resolved by the access guard.
type Identity struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// Allowed reports whether the identity's role is in the allowed set.
func (id Identity) Allowed(roles ...Role) bool {
	for _, r := range roles {
		if id.Role == r {
			return true
		}
	}
	return false
}
