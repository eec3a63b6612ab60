package dto

// ModifyRoleRequest assigns a role to the identity with the given email.
// TeamID is required for Manager and Employee assignments.
type ModifyRoleRequest struct {
	Email  string  `json:"email"`
	Role   string  `json:"role"`
	TeamID *string `json:"team_id"`
}
