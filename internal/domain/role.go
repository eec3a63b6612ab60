package domain

import "fmt"

// Role enumerates the closed set of roles an identity can hold.
// Exactly one role is active per identity at any time.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleManager  Role = "Manager"
	RoleEmployee Role = "Employee"
)

// ParseRole validates a role literal.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleEmployee:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// RequiresTeam reports whether assigning this role demands a team linkage.
// Admins operate across teams; Managers and Employees must belong to one.
func (r Role) RequiresTeam() bool {
	return r == RoleManager || r == RoleEmployee
}
