package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/events"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

func newRoleService(users *userRepoMock, teams *teamRepoMock, dispatcher events.Dispatcher) *RoleService {
	return NewRoleService(RoleDependencies{
		UserRepo:   users,
		TeamRepo:   teams,
		Tx:         txRunnerStub{},
		Dispatcher: dispatcher,
	})
}

func adminActor() *domain.User {
	return &domain.User{ID: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin}
}

func TestAssignRolePromotionAlsoAppointsManager(t *testing.T) {
	users := &userRepoMock{}
	teams := &teamRepoMock{}
	dispatcher := &recordingDispatcher{}
	svc := newRoleService(users, teams, dispatcher)

	teamID := "team-alpha"
	target := &domain.User{ID: "bob-1", Email: "bob@example.com", Role: domain.RoleEmployee}
	team := &domain.Team{ID: teamID, Name: "Alpha"}

	users.On("GetByEmail", mock.Anything, "bob@example.com").Return(target, nil)
	teams.On("GetByID", mock.Anything, teamID).Return(team, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == "bob-1" && u.Role == domain.RoleManager && u.TeamID != nil && *u.TeamID == teamID
	})).Return(nil)
	teams.On("Update", mock.Anything, mock.MatchedBy(func(tm *domain.Team) bool {
		return tm.ID == teamID && tm.ManagerID != nil && *tm.ManagerID == "bob-1"
	})).Return(nil)

	err := svc.AssignRole(context.Background(), adminActor(), "bob@example.com", domain.RoleManager, &teamID)
	require.NoError(t, err)
	users.AssertExpectations(t)
	teams.AssertExpectations(t)

	published := dispatcher.published()
	require.Len(t, published, 2)
	require.Equal(t, events.EventRoleAssigned, published[0].Type)
	require.Equal(t, events.EventManagerAppointed, published[1].Type)
}

func TestAssignRoleReappointingSameManagerIsIdempotent(t *testing.T) {
	users := &userRepoMock{}
	teams := &teamRepoMock{}
	svc := newRoleService(users, teams, &recordingDispatcher{})

	teamID := "team-alpha"
	managerID := "mgr-1"
	target := &domain.User{ID: managerID, Email: "mgr@example.com", Role: domain.RoleManager, TeamID: &teamID}
	team := &domain.Team{ID: teamID, Name: "Alpha", ManagerID: &managerID}

	users.On("GetByEmail", mock.Anything, "mgr@example.com").Return(target, nil)
	teams.On("GetByID", mock.Anything, teamID).Return(team, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == managerID && u.Role == domain.RoleManager && *u.TeamID == teamID
	})).Return(nil)
	teams.On("Update", mock.Anything, mock.MatchedBy(func(tm *domain.Team) bool {
		return tm.ManagerID != nil && *tm.ManagerID == managerID
	})).Return(nil)

	require.NoError(t, svc.AssignRole(context.Background(), adminActor(), "mgr@example.com", domain.RoleManager, &teamID))
	require.NoError(t, svc.AssignRole(context.Background(), adminActor(), "mgr@example.com", domain.RoleManager, &teamID))
	require.Equal(t, &managerID, team.ManagerID)
}

func TestAssignRoleManagerWithoutTeamFailsBeforeAnyWrite(t *testing.T) {
	users := &userRepoMock{}
	teams := &teamRepoMock{}
	svc := newRoleService(users, teams, &recordingDispatcher{})

	target := &domain.User{ID: "bob-1", Email: "bob@example.com", Role: domain.RoleEmployee}
	users.On("GetByEmail", mock.Anything, "bob@example.com").Return(target, nil)

	err := svc.AssignRole(context.Background(), adminActor(), "bob@example.com", domain.RoleManager, nil)
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, 400, domainErr.HTTPStatus)
	require.Contains(t, domainErr.Errors, "Team Id is required")
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	teams.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAssignRoleUnknownTargetReturnsNotFound(t *testing.T) {
	users := &userRepoMock{}
	teams := &teamRepoMock{}
	svc := newRoleService(users, teams, &recordingDispatcher{})

	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, pgx.ErrNoRows)

	err := svc.AssignRole(context.Background(), adminActor(), "ghost@example.com", domain.RoleAdmin, nil)
	require.Error(t, err)
	require.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
	require.Equal(t, "User does not exist", apperrors.ToDomainError(err).Message)
}

func TestAssignRoleUnknownTeamFailsValidation(t *testing.T) {
	users := &userRepoMock{}
	teams := &teamRepoMock{}
	svc := newRoleService(users, teams, &recordingDispatcher{})

	teamID := "no-such-team"
	target := &domain.User{ID: "bob-1", Email: "bob@example.com", Role: domain.RoleEmployee}
	users.On("GetByEmail", mock.Anything, "bob@example.com").Return(target, nil)
	teams.On("GetByID", mock.Anything, teamID).Return(nil, pgx.ErrNoRows)

	err := svc.AssignRole(context.Background(), adminActor(), "bob@example.com", domain.RoleEmployee, &teamID)
	require.Error(t, err)
	require.Contains(t, apperrors.ToDomainError(err).Errors, "Team does not exist")
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAssignRoleDemotionClearsTeamLeadership(t *testing.T) {
	users := &userRepoMock{}
	teams := &teamRepoMock{}
	svc := newRoleService(users, teams, &recordingDispatcher{})

	oldTeamID := "team-alpha"
	managerID := "mgr-1"
	target := &domain.User{ID: managerID, Email: "mgr@example.com", Role: domain.RoleManager, TeamID: &oldTeamID}
	oldTeam := &domain.Team{ID: oldTeamID, Name: "Alpha", ManagerID: &managerID}

	users.On("GetByEmail", mock.Anything, "mgr@example.com").Return(target, nil)
	teams.On("GetByID", mock.Anything, oldTeamID).Return(oldTeam, nil)
	teams.On("Update", mock.Anything, mock.MatchedBy(func(tm *domain.Team) bool {
		return tm.ID == oldTeamID && tm.ManagerID == nil
	})).Return(nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == managerID && u.Role == domain.RoleEmployee && u.TeamID != nil && *u.TeamID == oldTeamID
	})).Return(nil)

	err := svc.AssignRole(context.Background(), adminActor(), "mgr@example.com", domain.RoleEmployee, &oldTeamID)
	require.NoError(t, err)
	teams.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestAssignRoleMovingManagerAcrossTeamsClearsOldLeadership(t *testing.T) {
	users := &userRepoMock{}
	teams := &teamRepoMock{}
	svc := newRoleService(users, teams, &recordingDispatcher{})

	alphaID := "team-alpha"
	betaID := "team-beta"
	managerID := "mgr-1"
	target := &domain.User{ID: managerID, Email: "mgr@example.com", Role: domain.RoleManager, TeamID: &alphaID}
	alpha := &domain.Team{ID: alphaID, Name: "Alpha", ManagerID: &managerID}
	beta := &domain.Team{ID: betaID, Name: "Beta"}

	users.On("GetByEmail", mock.Anything, "mgr@example.com").Return(target, nil)
	teams.On("GetByID", mock.Anything, betaID).Return(beta, nil)
	teams.On("GetByID", mock.Anything, alphaID).Return(alpha, nil)
	teams.On("Update", mock.Anything, mock.MatchedBy(func(tm *domain.Team) bool {
		return tm.ID == alphaID && tm.ManagerID == nil
	})).Return(nil)
	teams.On("Update", mock.Anything, mock.MatchedBy(func(tm *domain.Team) bool {
		return tm.ID == betaID && tm.ManagerID != nil && *tm.ManagerID == managerID
	})).Return(nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == managerID && u.Role == domain.RoleManager && u.TeamID != nil && *u.TeamID == betaID
	})).Return(nil)

	err := svc.AssignRole(context.Background(), adminActor(), "mgr@example.com", domain.RoleManager, &betaID)
	require.NoError(t, err)
	require.Nil(t, alpha.ManagerID)
	require.NotNil(t, beta.ManagerID)
	require.Equal(t, managerID, *beta.ManagerID)
	teams.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestAssignRoleAdminWithoutTeamKeepsExistingLinkage(t *testing.T) {
	users := &userRepoMock{}
	teams := &teamRepoMock{}
	svc := newRoleService(users, teams, &recordingDispatcher{})

	teamID := "team-alpha"
	target := &domain.User{ID: "emp-1", Email: "emp@example.com", Role: domain.RoleEmployee, TeamID: &teamID}

	users.On("GetByEmail", mock.Anything, "emp@example.com").Return(target, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleAdmin && u.TeamID != nil && *u.TeamID == teamID
	})).Return(nil)

	err := svc.AssignRole(context.Background(), adminActor(), "emp@example.com", domain.RoleAdmin, nil)
	require.NoError(t, err)
	users.AssertExpectations(t)
	teams.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
