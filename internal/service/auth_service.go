package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-tracker/internal/auth"
	"github.com/spec-kit/task-tracker/internal/config"
	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/repository"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTLDays),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Login authenticates an identity by email and password and mints a token
// carrying the identity's current role set. Unknown email and wrong
// password return the same error so account existence is not leaked.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(user, []domain.Role{user.Role})
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}

// Register creates a new identity with the default Employee role and
// returns a freshly minted token.
func (s *AuthService) Register(ctx context.Context, displayName, email, password string) (*domain.User, string, time.Time, error) {
	exists, err := s.EmailExists(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if exists {
		return nil, "", time.Time{}, apperrors.NewValidationError("registration failed", "Email address is in use")
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	user := &domain.User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		Role:         domain.RoleEmployee,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user, []domain.Role{user.Role})
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}

// IssueToken re-issues a token for an already authenticated identity.
func (s *AuthService) IssueToken(user *domain.User) (string, time.Time, error) {
	return s.tokenMgr.GenerateToken(user, []domain.Role{user.Role})
}

// EmailExists reports whether an identity with the email is registered.
func (s *AuthService) EmailExists(ctx context.Context, email string) (bool, error) {
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, apperrors.MapError(err)
	}
	return true, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
