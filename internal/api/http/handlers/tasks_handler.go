package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-tracker/internal/api/dto"
	"github.com/spec-kit/task-tracker/internal/auth"
	"github.com/spec-kit/task-tracker/internal/repository"
	"github.com/spec-kit/task-tracker/internal/service"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

// TasksHandler exposes task endpoints.
type TasksHandler struct {
	tasks *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(tasks *service.TaskService) *TasksHandler {
	return &TasksHandler{tasks: tasks}
}

// GetOwnPending handles GET /tasks: the caller's not-yet-closed tasks.
func (h *TasksHandler) GetOwnPending(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	tasks, err := h.tasks.GetOwnPending(c.Context(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponses(tasks)})
}

// GetByID handles GET /tasks/:id.
func (h *TasksHandler) GetByID(c *fiber.Ctx) error {
	detail, err := h.tasks.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	resp := taskResponse(detail.Task)
	resp.DocumentIDs = detail.DocumentIDs
	for _, comment := range detail.Comments {
		resp.Comments = append(resp.Comments, dto.CommentResponse{
			ID:          comment.ID,
			Content:     comment.Content,
			TaskID:      comment.TaskID,
			AuthorEmail: comment.AuthorEmail,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// ListByTeam handles GET /tasks/all?team_id=&due_start=&due_end=.
func (h *TasksHandler) ListByTeam(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	teamID := strings.TrimSpace(c.Query("team_id"))
	if teamID == "" {
		return apperrors.NewValidationError("invalid payload", "team_id required")
	}
	dueStart, err := parseDateQuery(c.Query("due_start"))
	if err != nil {
		return apperrors.NewValidationError("invalid payload", "due_start must be a date")
	}
	dueEnd, err := parseDateQuery(c.Query("due_end"))
	if err != nil {
		return apperrors.NewValidationError("invalid payload", "due_end must be a date")
	}

	tasks, err := h.tasks.ListByTeam(c.Context(), principal.User, teamID, dueStart, dueEnd)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponses(tasks)})
}

// Create handles POST /tasks.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if strings.TrimSpace(req.Title) == "" {
		return apperrors.NewValidationError("invalid payload", "title required")
	}

	task, err := h.tasks.Create(c.Context(), principal.User, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.TaskResponse{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			DueDate:     task.DueDate,
			Status:      task.Status,
			AssignedTo:  req.AssignedTo,
		},
	})
}

// Update handles PUT /tasks with a full-replace payload; the task id rides
// in the body.
func (h *TasksHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if strings.TrimSpace(req.ID) == "" {
		return apperrors.NewValidationError("invalid payload", "id required")
	}
	if strings.TrimSpace(req.Title) == "" {
		return apperrors.NewValidationError("invalid payload", "title required")
	}

	task, err := h.tasks.Update(c.Context(), principal.User, req.ID, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.TaskResponse{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			DueDate:     task.DueDate,
			Status:      task.Status,
			AssignedTo:  req.AssignedTo,
		},
	})
}

// AddComment handles POST /tasks/:id/comment. The author is always the
// authenticated caller.
func (h *TasksHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if strings.TrimSpace(req.Content) == "" {
		return apperrors.NewValidationError("invalid payload", "content required")
	}

	comment, err := h.tasks.AddComment(c.Context(), principal.User, c.Params("id"), req.Content)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.CommentResponse{
			ID:          comment.ID,
			Content:     comment.Content,
			TaskID:      comment.TaskID,
			AuthorEmail: principal.User.Email,
		},
	})
}

func taskResponse(task repository.TaskWithAssignee) dto.TaskResponse {
	return dto.TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Status:      task.Status,
		AssignedTo:  task.AssigneeEmail,
		TeamID:      task.AssigneeTeamID,
	}
}

func taskResponses(tasks []repository.TaskWithAssignee) []dto.TaskResponse {
	result := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, taskResponse(task))
	}
	return result
}

// parseDateQuery accepts either a calendar date or a full RFC3339 stamp.
func parseDateQuery(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
