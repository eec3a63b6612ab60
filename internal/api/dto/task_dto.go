package dto

import (
	"time"

	"github.com/spec-kit/task-tracker/internal/domain"
)

// CreateTaskRequest payload.
type CreateTaskRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	DueDate     time.Time         `json:"due_date"`
	Status      domain.TaskStatus `json:"status"`
	AssignedTo  *string           `json:"assigned_to"`
}

// UpdateTaskRequest is a full replace: every field must be supplied.
type UpdateTaskRequest struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	DueDate     time.Time         `json:"due_date"`
	Status      domain.TaskStatus `json:"status"`
	AssignedTo  *string           `json:"assigned_to"`
}

// TaskResponse represents a task enriched with assignee and team info.
type TaskResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	DueDate     time.Time         `json:"due_date"`
	Status      domain.TaskStatus `json:"status"`
	AssignedTo  *string           `json:"assigned_to"`
	TeamID      *string           `json:"team_id"`
	Comments    []CommentResponse `json:"comments,omitempty"`
	DocumentIDs []string          `json:"document_ids,omitempty"`
}

// CommentRequest payload.
type CommentRequest struct {
	Content string `json:"content"`
}

// CommentResponse represents a comment with its author's email.
type CommentResponse struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	TaskID      string `json:"task_id"`
	AuthorEmail string `json:"author_email"`
}
