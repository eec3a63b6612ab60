package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/task-tracker/internal/auth"
	"github.com/spec-kit/task-tracker/internal/config"
	"github.com/spec-kit/task-tracker/internal/domain"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:    "test-secret",
			Issuer:       "task-tracker",
			TokenTTLDays: 7,
			BcryptCost:   4,
		},
	}
}

func TestLoginUnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	users := &userRepoMock{}
	svc := NewAuthService(testConfig(), users)

	hash, err := auth.HashPassword("right-password", 4)
	require.NoError(t, err)

	users.On("GetByEmail", mock.Anything, "missing@example.com").Return(nil, pgx.ErrNoRows)
	users.On("GetByEmail", mock.Anything, "known@example.com").Return(&domain.User{
		ID:           "u1",
		Email:        "known@example.com",
		PasswordHash: hash,
		Role:         domain.RoleEmployee,
	}, nil)

	_, _, _, errUnknown := svc.Login(context.Background(), "missing@example.com", "whatever")
	_, _, _, errWrongPass := svc.Login(context.Background(), "known@example.com", "wrong-password")

	require.Error(t, errUnknown)
	require.Error(t, errWrongPass)
	require.Equal(t, errUnknown.Error(), errWrongPass.Error())
	require.Equal(t, apperrors.ToDomainError(errUnknown).HTTPStatus, apperrors.ToDomainError(errWrongPass).HTTPStatus)
}

func TestLoginMintsTokenWithCurrentRole(t *testing.T) {
	users := &userRepoMock{}
	svc := NewAuthService(testConfig(), users)

	hash, err := auth.HashPassword("secret123", 4)
	require.NoError(t, err)

	users.On("GetByEmail", mock.Anything, "manager@example.com").Return(&domain.User{
		ID:           "u2",
		Email:        "manager@example.com",
		DisplayName:  "Morgan",
		PasswordHash: hash,
		Role:         domain.RoleManager,
	}, nil)

	before := time.Now()
	user, token, exp, err := svc.Login(context.Background(), "manager@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, "manager@example.com", user.Email)
	require.NotEmpty(t, token)

	// 7-day expiry window
	require.WithinDuration(t, before.Add(7*24*time.Hour), exp, time.Minute)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "manager@example.com", claims.Email)
	require.Equal(t, "Morgan", claims.DisplayName)
	require.Equal(t, []domain.Role{domain.RoleManager}, claims.Roles)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	users := &userRepoMock{}
	svc := NewAuthService(testConfig(), users)

	users.On("GetByEmail", mock.Anything, "taken@example.com").Return(&domain.User{
		ID:    "u3",
		Email: "taken@example.com",
	}, nil)

	_, _, _, err := svc.Register(context.Background(), "Dup", "taken@example.com", "password")
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, 400, domainErr.HTTPStatus)
	require.Contains(t, domainErr.Errors, "Email address is in use")
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterDefaultsToEmployee(t *testing.T) {
	users := &userRepoMock{}
	svc := NewAuthService(testConfig(), users)

	users.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, pgx.ErrNoRows)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleEmployee && u.Email == "new@example.com" && u.PasswordHash != "password"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = "u4"
	}).Return(nil)

	user, token, _, err := svc.Register(context.Background(), "Newbie", "new@example.com", "password")
	require.NoError(t, err)
	require.Equal(t, domain.RoleEmployee, user.Role)
	require.NotEmpty(t, token)
	users.AssertExpectations(t)
}
