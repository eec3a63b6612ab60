package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/persistence"
)

// TaskFilter captures task search parameters. Team scoping applies to the
// assignee's team, not a column on the task itself.
type TaskFilter struct {
	AssigneeID     *string
	AssigneeTeamID *string
	DueFrom        *time.Time
	DueTo          *time.Time
	ExcludeClosed  bool
	Limit          int
	Offset         int
}

// TaskWithAssignee joins a task with its assignee's email and team.
type TaskWithAssignee struct {
	domain.Task
	AssigneeEmail  *string
	AssigneeTeamID *string
}

// TaskRepository encapsulates task persistence.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*TaskWithAssignee, error)
	ListWithFilter(ctx context.Context, filter TaskFilter) ([]TaskWithAssignee, error)
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository instantiates repository.
func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) q(ctx context.Context) persistence.Querier {
	return persistence.QuerierFor(ctx, r.pool)
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (title, description, due_date, status, assigned_to)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.q(ctx).QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.DueDate,
		task.Status,
		task.AssignedTo,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	const query = `
        UPDATE tasks SET title=$1, description=$2, due_date=$3, status=$4, assigned_to=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.q(ctx).Exec(ctx, query,
		task.Title,
		task.Description,
		task.DueDate,
		task.Status,
		task.AssignedTo,
		task.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*TaskWithAssignee, error) {
	const query = `
        SELECT t.id, t.title, t.description, t.due_date, t.status, t.assigned_to,
               t.created_at, t.updated_at, u.email, u.team_id
        FROM tasks t
        LEFT JOIN users u ON u.id = t.assigned_to
        WHERE t.id=$1`
	var task TaskWithAssignee
	if err := r.q(ctx).QueryRow(ctx, query, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Status,
		&task.AssignedTo,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.AssigneeEmail,
		&task.AssigneeTeamID,
	); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) ListWithFilter(ctx context.Context, filter TaskFilter) ([]TaskWithAssignee, error) {
	base := `SELECT t.id, t.title, t.description, t.due_date, t.status, t.assigned_to,
                    t.created_at, t.updated_at, u.email, u.team_id
             FROM tasks t
             LEFT JOIN users u ON u.id = t.assigned_to`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("t.assigned_to=$%d", len(args)))
	}
	if filter.AssigneeTeamID != nil {
		args = append(args, *filter.AssigneeTeamID)
		clauses = append(clauses, fmt.Sprintf("u.team_id=$%d", len(args)))
	}
	if filter.DueFrom != nil {
		args = append(args, *filter.DueFrom)
		clauses = append(clauses, fmt.Sprintf("t.due_date >= $%d", len(args)))
	}
	if filter.DueTo != nil {
		args = append(args, *filter.DueTo)
		clauses = append(clauses, fmt.Sprintf("t.due_date < $%d", len(args)))
	}
	if filter.ExcludeClosed {
		args = append(args, domain.TaskStatusClosed)
		clauses = append(clauses, fmt.Sprintf("t.status != $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 25
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY t.created_at ASC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func scanTasks(rows pgx.Rows) ([]TaskWithAssignee, error) {
	var result []TaskWithAssignee
	for rows.Next() {
		var task TaskWithAssignee
		if err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.DueDate,
			&task.Status,
			&task.AssignedTo,
			&task.CreatedAt,
			&task.UpdatedAt,
			&task.AssigneeEmail,
			&task.AssigneeTeamID,
		); err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	return result, rows.Err()
}
