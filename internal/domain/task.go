package domain

import "time"

// TaskStatus enumerates task lifecycle states. Any authorized caller may
// set any value; there is no enforced transition graph.
type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "Open"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusClosed     TaskStatus = "Closed"
)

// ValidTaskStatus reports whether s is one of the known literals.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusClosed:
		return true
	}
	return false
}

// Task is the unit of work. DueDate carries no time component; AssignedTo
// is the id of the assigned identity, if any.
type Task struct {
	ID          string
	Title       string
	Description string
	DueDate     time.Time
	Status      TaskStatus
	AssignedTo  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NormalizeDueDate truncates a timestamp to its date-only form in UTC.
func NormalizeDueDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
