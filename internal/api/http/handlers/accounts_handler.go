package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-tracker/internal/api/dto"
	"github.com/spec-kit/task-tracker/internal/auth"
	"github.com/spec-kit/task-tracker/internal/service"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

// AccountsHandler exposes registration and login endpoints.
type AccountsHandler struct {
	auth *service.AuthService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(authService *service.AuthService) *AccountsHandler {
	return &AccountsHandler{auth: authService}
}

// Register handles POST /accounts/register.
func (h *AccountsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.DisplayName == "" {
		return apperrors.NewValidationError("invalid payload", "display_name, email, password required")
	}

	user, token, exp, err := h.auth.Register(c.Context(), req.DisplayName, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.UserResponse{
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Token:       token,
			ExpiresAt:   exp,
		},
	})
}

// Login handles POST /accounts/login.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("invalid payload", "email and password required")
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.UserResponse{
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Token:       token,
			ExpiresAt:   exp,
		},
	})
}

// CurrentUser handles GET /accounts: re-issues a token for the caller.
func (h *AccountsHandler) CurrentUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	token, exp, err := h.auth.IssueToken(principal.User)
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{
		"data": dto.UserResponse{
			Email:       principal.User.Email,
			DisplayName: principal.User.DisplayName,
			Token:       token,
			ExpiresAt:   exp,
		},
	})
}

// EmailExists handles GET /accounts/emailexists.
func (h *AccountsHandler) EmailExists(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		return apperrors.NewValidationError("invalid payload", "email required")
	}

	exists, err := h.auth.EmailExists(c.Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": exists})
}
