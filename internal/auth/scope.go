package auth

import "github.com/spec-kit/task-tracker/internal/domain"

// Scope resolution derives visibility predicates from a caller's role and
// team membership. Resolution is pure: the same caller always yields the
// same predicate, and evaluation performs no I/O.

// TaskScope decides which tasks a caller may see. Rules, first match wins:
// Admin sees everything; a Manager sees tasks whose assignee belongs to the
// manager's team; an Employee sees only tasks assigned to themself.
type TaskScope struct {
	role     domain.Role
	callerID string
	teamID   *string
}

// ScopeForTasks resolves the task predicate for the caller.
func ScopeForTasks(caller *domain.User) TaskScope {
	return TaskScope{role: caller.Role, callerID: caller.ID, teamID: caller.TeamID}
}

// Allows evaluates the predicate against a task's assignee and the
// assignee's team.
func (s TaskScope) Allows(assigneeID, assigneeTeamID *string) bool {
	switch s.role {
	case domain.RoleAdmin:
		return true
	case domain.RoleManager:
		return s.teamID != nil && assigneeTeamID != nil && *s.teamID == *assigneeTeamID
	case domain.RoleEmployee:
		return assigneeID != nil && *assigneeID == s.callerID
	default:
		return false
	}
}

// CrossTeam reports whether the caller may use cross-team listing
// operations at all. Employees never may.
func (s TaskScope) CrossTeam() bool {
	return s.role == domain.RoleAdmin || s.role == domain.RoleManager
}

// Unrestricted reports whether no filtering applies.
func (s TaskScope) Unrestricted() bool {
	return s.role == domain.RoleAdmin
}

// TeamID returns the team the scope is bound to, if any.
func (s TaskScope) TeamID() *string {
	if s.role == domain.RoleAdmin {
		return nil
	}
	return s.teamID
}

// TeamScope decides which teams a caller may see. Team listing is currently
// Admin-only at the route layer; the Manager arm covers the single-team
// read this predicate already supports.
type TeamScope struct {
	role   domain.Role
	teamID *string
}

// ScopeForTeams resolves the team predicate for the caller.
func ScopeForTeams(caller *domain.User) TeamScope {
	return TeamScope{role: caller.Role, teamID: caller.TeamID}
}

// Allows evaluates the predicate against a team id.
func (s TeamScope) Allows(teamID string) bool {
	switch s.role {
	case domain.RoleAdmin:
		return true
	case domain.RoleManager:
		return s.teamID != nil && *s.teamID == teamID
	case domain.RoleEmployee:
		return false
	default:
		return false
	}
}
