package database

import (
	"context"
	"database/sql"
	"fmt"

	"case_notification_service/internal/domain/task"
)

// Custom errors
var ErrTaskNotFound = fmt.Errorf("task not found")

type PostgresTaskRepository struct {
	db *sql.DB
}

func NewPostgresTaskRepository(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

func (r *PostgresTaskRepository) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	query := `SELECT id, title, due_date, status, category, assignee_id, created_at, updated_at
               FROM tasks WHERE id = $1`
	t := &task.Task{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.DueDate, &t.Status, &t.Category, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("error getting task by ID: %w", err)
	}
	return t, nil
}

func (r *PostgresTaskRepository) ListWithDueDates(ctx context.Context) ([]*task.Task, error) {
	query := `SELECT id, title, due_date, status, category, assignee_id, created_at, updated_at
               FROM tasks WHERE due_date IS NOT NULL ORDER BY due_date`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks with due dates: %w", err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t := &task.Task{}
		if err := rows.Scan(&t.ID, &t.Title, &t.DueDate, &t.Status, &t.Category, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}

func (r *PostgresTaskRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM tasks`)
	if err != nil {
		return nil, fmt.Errorf("error listing task IDs: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning task ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task IDs: %w", err)
	}
	return ids, nil
}
