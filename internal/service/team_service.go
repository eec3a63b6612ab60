package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/repository"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

// TeamService covers Admin team administration: creation, listing, and
// plain membership assignment (no role change).
type TeamService struct {
	teams repository.TeamRepository
	users repository.UserRepository
}

// NewTeamService constructs the service.
func NewTeamService(teams repository.TeamRepository, users repository.UserRepository) *TeamService {
	return &TeamService{teams: teams, users: users}
}

// TeamDetail is a team with its manager's and members' emails resolved.
type TeamDetail struct {
	Team         domain.Team
	ManagerEmail *string
	MemberEmails []string
}

// CreateTeam creates an empty team.
func (s *TeamService) CreateTeam(ctx context.Context, name string) (*domain.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("invalid team", "Name is required")
	}
	team := &domain.Team{Name: name}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, apperrors.MapError(err)
	}
	return team, nil
}

// ListTeams returns all teams with manager and member emails.
func (s *TeamService) ListTeams(ctx context.Context) ([]TeamDetail, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	result := make([]TeamDetail, 0, len(teams))
	for _, team := range teams {
		detail := TeamDetail{Team: team}

		if team.ManagerID != nil {
			manager, err := s.users.GetByID(ctx, *team.ManagerID)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.MapError(err)
			}
			if manager != nil {
				email := manager.Email
				detail.ManagerEmail = &email
			}
		}

		members, err := s.users.ListByTeam(ctx, team.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		for _, member := range members {
			detail.MemberEmails = append(detail.MemberEmails, member.Email)
		}

		result = append(result, detail)
	}
	return result, nil
}

// AssignToTeam links an identity to a team without touching its role.
func (s *TeamService) AssignToTeam(ctx context.Context, email, teamID string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user doesnt exist")
		}
		return apperrors.MapError(err)
	}

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("Team not found")
		}
		return apperrors.MapError(err)
	}

	if err := s.releaseLeadership(ctx, user, team.ID); err != nil {
		return apperrors.MapError(err)
	}

	user.TeamID = &team.ID
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// releaseLeadership clears the old team's manager reference when a Manager
// is moved to a different team, so a team never keeps a manager whose team
// reference points elsewhere.
func (s *TeamService) releaseLeadership(ctx context.Context, user *domain.User, newTeamID string) error {
	if user.Role != domain.RoleManager || user.TeamID == nil || *user.TeamID == newTeamID {
		return nil
	}
	old, err := s.teams.GetByID(ctx, *user.TeamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	if old.ManagerID == nil || *old.ManagerID != user.ID {
		return nil
	}
	old.ManagerID = nil
	return s.teams.Update(ctx, old)
}
