package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/persistence"
)

// DocumentRepository persists uploaded document bytes.
type DocumentRepository interface {
	Create(ctx context.Context, document *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListIDsByTask(ctx context.Context, taskID string) ([]string, error)
}

type documentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository constructs repository.
func NewDocumentRepository(pool *pgxpool.Pool) DocumentRepository {
	return &documentRepository{pool: pool}
}

func (r *documentRepository) q(ctx context.Context) persistence.Querier {
	return persistence.QuerierFor(ctx, r.pool)
}

func (r *documentRepository) Create(ctx context.Context, document *domain.Document) error {
	const query = `
        INSERT INTO documents (file_name, content, task_id)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.q(ctx).QueryRow(ctx, query,
		document.FileName,
		document.Content,
		document.TaskID,
	).Scan(&document.ID, &document.CreatedAt)
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	const query = `
        SELECT id, file_name, content, task_id, created_at
        FROM documents WHERE id=$1`
	var document domain.Document
	if err := r.q(ctx).QueryRow(ctx, query, id).Scan(
		&document.ID,
		&document.FileName,
		&document.Content,
		&document.TaskID,
		&document.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &document, nil
}

func (r *documentRepository) ListIDsByTask(ctx context.Context, taskID string) ([]string, error) {
	const query = `
        SELECT id FROM documents WHERE task_id=$1 ORDER BY created_at ASC`
	rows, err := r.q(ctx).Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
