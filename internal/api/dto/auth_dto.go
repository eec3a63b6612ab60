package dto

import "time"

// RegisterRequest payload for new identities.
type RegisterRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the standard response for auth endpoints: the identity
// plus its bearer token.
type UserResponse struct {
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
}
