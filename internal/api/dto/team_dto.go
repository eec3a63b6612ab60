package dto

// TeamRequest payload.
type TeamRequest struct {
	Name string `json:"name"`
}

// AssignTeamRequest links an identity to a team.
type AssignTeamRequest struct {
	Email  string `json:"email"`
	TeamID string `json:"team_id"`
}

// TeamResponse lists a team with its manager and member emails.
type TeamResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	ManagerID *string  `json:"manager_id"`
	Manager   *string  `json:"manager"`
	Members   []string `json:"members"`
}
