package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/persistence"
)

// CommentWithAuthor joins a comment with its author's email.
type CommentWithAuthor struct {
	domain.Comment
	AuthorEmail string
}

// CommentRepository manages task comments. Comments are immutable once
// created, so only insert and list operations exist.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByTask(ctx context.Context, taskID string) ([]CommentWithAuthor, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) q(ctx context.Context) persistence.Querier {
	return persistence.QuerierFor(ctx, r.pool)
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (content, task_id, author_id)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.q(ctx).QueryRow(ctx, query,
		comment.Content,
		comment.TaskID,
		comment.AuthorID,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) ListByTask(ctx context.Context, taskID string) ([]CommentWithAuthor, error) {
	const query = `
        SELECT c.id, c.content, c.task_id, c.author_id, c.created_at, u.email
        FROM comments c
        JOIN users u ON u.id = c.author_id
        WHERE c.task_id=$1 ORDER BY c.created_at ASC`
	rows, err := r.q(ctx).Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CommentWithAuthor
	for rows.Next() {
		var comment CommentWithAuthor
		if err := rows.Scan(
			&comment.ID,
			&comment.Content,
			&comment.TaskID,
			&comment.AuthorID,
			&comment.CreatedAt,
			&comment.AuthorEmail,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
