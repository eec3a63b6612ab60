package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-tracker/internal/api/dto"
	"github.com/spec-kit/task-tracker/internal/service"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

// TeamsHandler exposes Admin team administration endpoints.
type TeamsHandler struct {
	teams *service.TeamService
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(teams *service.TeamService) *TeamsHandler {
	return &TeamsHandler{teams: teams}
}

// Create handles POST /teams.
func (h *TeamsHandler) Create(c *fiber.Ctx) error {
	var req dto.TeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	team, err := h.teams.CreateTeam(c.Context(), req.Name)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.TeamResponse{
			ID:   team.ID,
			Name: team.Name,
		},
	})
}

// List handles GET /teams with manager and member emails resolved.
func (h *TeamsHandler) List(c *fiber.Ctx) error {
	teams, err := h.teams.ListTeams(c.Context())
	if err != nil {
		return err
	}

	result := make([]dto.TeamResponse, 0, len(teams))
	for _, detail := range teams {
		result = append(result, dto.TeamResponse{
			ID:        detail.Team.ID,
			Name:      detail.Team.Name,
			ManagerID: detail.Team.ManagerID,
			Manager:   detail.ManagerEmail,
			Members:   detail.MemberEmails,
		})
	}
	return c.JSON(fiber.Map{"data": result})
}

// Assign handles POST /teams/assign: membership only, no role change.
func (h *TeamsHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.TeamID) == "" {
		return apperrors.NewValidationError("invalid payload", "email and team_id required")
	}

	if err := h.teams.AssignToTeam(c.Context(), req.Email, req.TeamID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": "member assigned"})
}
