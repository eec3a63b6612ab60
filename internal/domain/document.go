package domain

import "time"

// Document stores an uploaded file's raw bytes keyed to a task.
type Document struct {
	ID        string
	FileName  string
	Content   []byte
	TaskID    string
	CreatedAt time.Time
}
