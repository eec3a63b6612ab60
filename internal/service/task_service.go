package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-tracker/internal/auth"
	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/events"
	"github.com/spec-kit/task-tracker/internal/repository"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

// TaskService wraps task reads and writes with the caller's visibility
// scope and role checks.
type TaskService struct {
	tasks      repository.TaskRepository
	users      repository.UserRepository
	teams      repository.TeamRepository
	comments   repository.CommentRepository
	documents  repository.DocumentRepository
	dispatcher events.Dispatcher
}

// TaskDependencies bundles repositories for the task service.
type TaskDependencies struct {
	TaskRepo     repository.TaskRepository
	UserRepo     repository.UserRepository
	TeamRepo     repository.TeamRepository
	CommentRepo  repository.CommentRepository
	DocumentRepo repository.DocumentRepository
	Dispatcher   events.Dispatcher
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	return &TaskService{
		tasks:      deps.TaskRepo,
		users:      deps.UserRepo,
		teams:      deps.TeamRepo,
		comments:   deps.CommentRepo,
		documents:  deps.DocumentRepo,
		dispatcher: deps.Dispatcher,
	}
}

// TaskInput describes task creation and full-replace update payloads.
// Omitted fields are written as given; updates are not partial patches.
type TaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Status      domain.TaskStatus
	AssignedTo  *string // assignee email
}

// TaskDetail is a task with its discussion thread and attachments.
type TaskDetail struct {
	Task        repository.TaskWithAssignee
	Comments    []repository.CommentWithAuthor
	DocumentIDs []string
}

// GetOwnPending returns the caller's tasks that are not Closed, enriched
// with assignee email and team id.
func (s *TaskService) GetOwnPending(ctx context.Context, caller *domain.User) ([]repository.TaskWithAssignee, error) {
	filter := repository.TaskFilter{
		AssigneeID:    &caller.ID,
		ExcludeClosed: true,
	}
	tasks, err := s.tasks.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tasks, nil
}

// GetByID returns a task with its comments and attached document ids.
// The single-item lookup is not scope-filtered: any authenticated caller
// who knows the id may read it.
func (s *TaskService) GetByID(ctx context.Context, taskID string) (*TaskDetail, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("The task doesn't exist.")
		}
		return nil, apperrors.MapError(err)
	}

	comments, err := s.comments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	documentIDs, err := s.documents.ListIDsByTask(ctx, taskID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &TaskDetail{Task: *task, Comments: comments, DocumentIDs: documentIDs}, nil
}

// ListByTeam returns tasks due in [dueStart, dueEnd) whose assignee belongs
// to the given team. Admin and Manager only; a Manager may list only their
// own team.
func (s *TaskService) ListByTeam(ctx context.Context, caller *domain.User, teamID string, dueStart, dueEnd time.Time) ([]repository.TaskWithAssignee, error) {
	scope := auth.ScopeForTasks(caller)
	if !scope.CrossTeam() {
		return nil, apperrors.NewForbidden("insufficient role")
	}
	if !scope.Unrestricted() {
		if tid := scope.TeamID(); tid == nil || *tid != teamID {
			return nil, apperrors.NewForbidden("access denied")
		}
	}

	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Team not found")
		}
		return nil, apperrors.MapError(err)
	}

	// TODO: confirm with product whether this guard should reject
	// dueStart >= dueEnd; the check below rejects a start before the end,
	// which is preserved from the observed behavior.
	if dueStart.Before(dueEnd) {
		return nil, apperrors.NewValidationError("invalid date range", "Due start must not precede due end")
	}

	start := domain.NormalizeDueDate(dueStart)
	end := domain.NormalizeDueDate(dueEnd)
	filter := repository.TaskFilter{
		AssigneeTeamID: &teamID,
		DueFrom:        &start,
		DueTo:          &end,
	}
	tasks, err := s.tasks.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tasks, nil
}

// Create persists a new task with a normalized date-only due date.
func (s *TaskService) Create(ctx context.Context, caller *domain.User, input TaskInput) (*domain.Task, error) {
	assigneeID, err := s.resolveAssignee(ctx, input.AssignedTo)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.TaskStatusOpen
	}
	if !domain.ValidTaskStatus(status) {
		return nil, apperrors.NewValidationError("invalid task", "Unknown status value")
	}

	task := &domain.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		DueDate:     domain.NormalizeDueDate(input.DueDate),
		Status:      status,
		AssignedTo:  assigneeID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, caller, events.EventTaskCreated, events.TaskCreatedPayload{
		TaskID:     task.ID,
		Title:      task.Title,
		Status:     task.Status,
		AssignedTo: task.AssignedTo,
	})
	return task, nil
}

// Update replaces the task's title, description, due date, status, and
// assignee. Callers must supply every field.
func (s *TaskService) Update(ctx context.Context, caller *domain.User, taskID string, input TaskInput) (*domain.Task, error) {
	existing, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("The task doesn't exist")
		}
		return nil, apperrors.MapError(err)
	}

	assigneeID, err := s.resolveAssignee(ctx, input.AssignedTo)
	if err != nil {
		return nil, err
	}
	if !domain.ValidTaskStatus(input.Status) {
		return nil, apperrors.NewValidationError("invalid task", "Unknown status value")
	}

	task := &domain.Task{
		ID:          existing.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		DueDate:     domain.NormalizeDueDate(input.DueDate),
		Status:      input.Status,
		AssignedTo:  assigneeID,
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, caller, events.EventTaskUpdated, events.TaskUpdatedPayload{
		TaskID:     task.ID,
		Status:     task.Status,
		AssignedTo: task.AssignedTo,
	})
	return task, nil
}

// AddComment appends an immutable comment to a task. The author is always
// the authenticated caller, never client-supplied input.
func (s *TaskService) AddComment(ctx context.Context, caller *domain.User, taskID, content string) (*domain.Comment, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("The task doesn't exist.")
		}
		return nil, apperrors.MapError(err)
	}

	comment := &domain.Comment{
		Content:  strings.TrimSpace(content),
		TaskID:   taskID,
		AuthorID: caller.ID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, caller, events.EventCommentAdded, events.CommentAddedPayload{
		TaskID:    taskID,
		CommentID: comment.ID,
		AuthorID:  comment.AuthorID,
	})
	return comment, nil
}

// resolveAssignee maps an assignee email to an identity id. A nil email
// leaves the task unassigned.
func (s *TaskService) resolveAssignee(ctx context.Context, email *string) (*string, error) {
	if email == nil || strings.TrimSpace(*email) == "" {
		return nil, nil
	}
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(*email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("invalid task", "Cannot assign to a user that doesnt exist")
		}
		return nil, apperrors.MapError(err)
	}
	return &user.ID, nil
}

func (s *TaskService) publishEvent(ctx context.Context, actor *domain.User, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actorFor(actor),
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
