package events

import (
	"time"

	"github.com/spec-kit/task-tracker/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTaskCreated      EventType = "task_created"
	EventTaskUpdated      EventType = "task_updated"
	EventCommentAdded     EventType = "comment_added"
	EventDocumentAttached EventType = "document_attached"
	EventRoleAssigned     EventType = "role_assigned"
	EventManagerAppointed EventType = "manager_appointed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TaskCreatedPayload payload.
type TaskCreatedPayload struct {
	TaskID     string            `json:"task_id"`
	Title      string            `json:"title"`
	Status     domain.TaskStatus `json:"status"`
	AssignedTo *string           `json:"assigned_to,omitempty"`
}

// TaskUpdatedPayload payload.
type TaskUpdatedPayload struct {
	TaskID     string            `json:"task_id"`
	Status     domain.TaskStatus `json:"status"`
	AssignedTo *string           `json:"assigned_to,omitempty"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	TaskID    string `json:"task_id"`
	CommentID string `json:"comment_id"`
	AuthorID  string `json:"author_id"`
}

// DocumentAttachedPayload payload.
type DocumentAttachedPayload struct {
	TaskID     string `json:"task_id"`
	DocumentID string `json:"document_id"`
	FileName   string `json:"file_name"`
	SizeBytes  int    `json:"size_bytes"`
}

// RoleAssignedPayload payload.
type RoleAssignedPayload struct {
	TargetEmail string      `json:"target_email"`
	Role        domain.Role `json:"role"`
	TeamID      *string     `json:"team_id,omitempty"`
}

// ManagerAppointedPayload payload.
type ManagerAppointedPayload struct {
	TeamID    string `json:"team_id"`
	ManagerID string `json:"manager_id"`
}
