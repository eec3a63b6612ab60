package domain

import "time"

// User is the identity model: email is the login name, the role is the
// single active role, TeamID links the identity to at most one team.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	Role         Role
	TeamID       *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
