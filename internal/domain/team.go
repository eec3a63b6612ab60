package domain

import "time"

// Team groups identities. ManagerID, when set, references a member whose
// role is Manager and whose team id equals this team. Membership is
// resolved by lookup on User.TeamID, not stored on the team itself.
type Team struct {
	ID        string
	Name      string
	ManagerID *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
