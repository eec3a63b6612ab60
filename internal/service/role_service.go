package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/events"
	"github.com/spec-kit/task-tracker/internal/repository"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

// TxRunner executes a function inside one storage transaction.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// RoleService is the only path that changes an identity's role or team
// linkage. Subsequent tokens reflect the new scope.
type RoleService struct {
	users      repository.UserRepository
	teams      repository.TeamRepository
	tx         TxRunner
	dispatcher events.Dispatcher
}

// RoleDependencies bundles requirements for the role service.
type RoleDependencies struct {
	UserRepo   repository.UserRepository
	TeamRepo   repository.TeamRepository
	Tx         TxRunner
	Dispatcher events.Dispatcher
}

// NewRoleService creates the service.
func NewRoleService(deps RoleDependencies) *RoleService {
	return &RoleService{
		users:      deps.UserRepo,
		teams:      deps.TeamRepo,
		tx:         deps.Tx,
		dispatcher: deps.Dispatcher,
	}
}

// AssignRole changes the target identity's role. Manager and Employee
// assignments require a team; promoting to Manager also appoints the
// target as that team's manager. Team linkage and role change commit in a
// single transaction. The route layer restricts this to Admin callers.
func (s *RoleService) AssignRole(ctx context.Context, actor *domain.User, targetEmail string, newRole domain.Role, teamID *string) error {
	target, err := s.users.GetByEmail(ctx, targetEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("User does not exist")
		}
		return apperrors.MapError(err)
	}

	if newRole.RequiresTeam() && teamID == nil {
		return apperrors.NewValidationError("role assignment failed", "Team Id is required")
	}

	var team *domain.Team
	if teamID != nil {
		team, err = s.teams.GetByID(ctx, *teamID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewValidationError("role assignment failed", "Team does not exist")
			}
			return apperrors.MapError(err)
		}
	}

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.clearStaleLeadership(ctx, target, newRole, teamID); err != nil {
			return err
		}

		if team != nil {
			target.TeamID = &team.ID
		}
		target.Role = newRole
		if err := s.users.Update(ctx, target); err != nil {
			return err
		}

		if newRole == domain.RoleManager {
			// Idempotent: re-appointing the same manager rewrites the
			// same reference.
			team.ManagerID = &target.ID
			if err := s.teams.Update(ctx, team); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.MapError(err)
	}

	s.publishRoleAssigned(ctx, actor, target, newRole, teamID)
	if newRole == domain.RoleManager && team != nil {
		s.publishManagerAppointed(ctx, actor, team.ID, target.ID)
	}
	return nil
}

// clearStaleLeadership removes the target's leadership of its current team
// when a Manager is demoted or re-appointed onto a different team, so no
// team keeps a manager whose team reference points elsewhere.
func (s *RoleService) clearStaleLeadership(ctx context.Context, target *domain.User, newRole domain.Role, newTeamID *string) error {
	if target.Role != domain.RoleManager || target.TeamID == nil {
		return nil
	}
	if newRole == domain.RoleManager && newTeamID != nil && *newTeamID == *target.TeamID {
		// re-appointment on the same team keeps the reference
		return nil
	}
	current, err := s.teams.GetByID(ctx, *target.TeamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	if current.ManagerID == nil || *current.ManagerID != target.ID {
		return nil
	}
	current.ManagerID = nil
	return s.teams.Update(ctx, current)
}

func (s *RoleService) publishRoleAssigned(ctx context.Context, actor *domain.User, target *domain.User, role domain.Role, teamID *string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventRoleAssigned,
		Actor:     actorFor(actor),
		Timestamp: time.Now(),
		Payload: events.RoleAssignedPayload{
			TargetEmail: target.Email,
			Role:        role,
			TeamID:      teamID,
		},
	})
}

func (s *RoleService) publishManagerAppointed(ctx context.Context, actor *domain.User, teamID, managerID string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventManagerAppointed,
		Actor:     actorFor(actor),
		Timestamp: time.Now(),
		Payload: events.ManagerAppointedPayload{
			TeamID:    teamID,
			ManagerID: managerID,
		},
	})
}

func actorFor(user *domain.User) events.Actor {
	if user == nil {
		return events.Actor{}
	}
	return events.Actor{UserID: user.ID, Email: user.Email}
}
