package domain

import "time"

// Comment attaches discussion to a task. Immutable after creation; the
// author reference is retained even if the identity later changes role.
type Comment struct {
	ID        string
	Content   string
	TaskID    string
	AuthorID  string
	CreatedAt time.Time
}
