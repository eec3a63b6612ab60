package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-tracker/internal/api/dto"
	"github.com/spec-kit/task-tracker/internal/auth"
	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/service"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

// RolesHandler exposes the Admin role assignment endpoint.
type RolesHandler struct {
	roles *service.RoleService
}

// NewRolesHandler constructs handler.
func NewRolesHandler(roles *service.RoleService) *RolesHandler {
	return &RolesHandler{roles: roles}
}

// ModifyRole handles POST /roles/add. Restricted to Admin by route middleware.
func (h *RolesHandler) ModifyRole(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ModifyRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if strings.TrimSpace(req.Email) == "" {
		return apperrors.NewValidationError("invalid payload", "email required")
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return apperrors.NewValidationError("role assignment failed", "Unknown role")
	}

	if err := h.roles.AssignRole(c.Context(), principal.User, req.Email, role, req.TeamID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": "role assigned"})
}
