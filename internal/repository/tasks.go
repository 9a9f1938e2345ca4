package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/models"
	"taskboard/pkg/logger"
)

const taskColumns = `id, title, description, is_completed, user_id, created_at, updated_at`

// TaskRepository defines task persistence. Every read and write is
// scoped to an owner: a task another user owns is indistinguishable
// from one that does not exist, so single-row lookups always pair the
// task id with the owner id in the same query.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	ListByOwner(ctx context.Context, userID string) ([]models.Task, error)
	// GetByID returns the task only when both id and owner match; ErrNotFound otherwise.
	GetByID(ctx context.Context, id, userID string) (*models.Task, error)
	// Update applies the non-nil fields of changes and returns the updated row.
	Update(ctx context.Context, id, userID string, changes models.TaskChanges) (*models.Task, error)
	Delete(ctx context.Context, id, userID string) error
	// ToggleComplete flips is_completed and returns the updated row.
	ToggleComplete(ctx context.Context, id, userID string) (*models.Task, error)
}

// PostgresTaskRepository implements TaskRepository on a Postgres database.
type PostgresTaskRepository struct {
	DB *sql.DB
}

// NewPostgresTaskRepository creates a PostgresTaskRepository with the given connection.
func NewPostgresTaskRepository(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{DB: db}
}

func (r *PostgresTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, is_completed, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		task.ID, task.Title, task.Description, task.IsCompleted, task.UserID, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		logger.Error(ctx, "Repository create task failed", "error", err)
		return err
	}
	return nil
}

func (r *PostgresTaskRepository) ListByOwner(ctx context.Context, userID string) ([]models.Task, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		logger.Error(ctx, "Repository list tasks failed", "error", err)
		return nil, err
	}
	defer rows.Close()
	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *PostgresTaskRepository) GetByID(ctx context.Context, id, userID string) (*models.Task, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *PostgresTaskRepository) Update(ctx context.Context, id, userID string, changes models.TaskChanges) (*models.Task, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		`UPDATE tasks SET title = COALESCE($1, title), description = COALESCE($2, description),
		 is_completed = COALESCE($3, is_completed), updated_at = $4
		 WHERE id = $5 AND user_id = $6
		 RETURNING `+taskColumns,
		changes.Title, changes.Description, changes.IsCompleted, time.Now().UTC(), id, userID))
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		logger.Error(ctx, "Repository delete task failed", "error", err, "id", id)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresTaskRepository) ToggleComplete(ctx context.Context, id, userID string) (*models.Task, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		`UPDATE tasks SET is_completed = NOT is_completed, updated_at = $1
		 WHERE id = $2 AND user_id = $3
		 RETURNING `+taskColumns,
		time.Now().UTC(), id, userID))
}

func (r *PostgresTaskRepository) scanOne(row *sql.Row) (*models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
