package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/tagwerk-app/reminder-service/internal/entity"
)

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) GetDueBetween(ctx context.Context, userID string, from, to time.Time) ([]*entity.Task, error) {
	query := `
		SELECT id, user_id, title, due_at, priority, status, project_id, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
		  AND status <> $2
		  AND due_at IS NOT NULL
		  AND due_at >= $3
		  AND due_at <= $4
		ORDER BY due_at ASC
	`

	tasks, err := r.queryTasks(ctx, query, userID, entity.TaskStatusCompleted, from, to)
	if err != nil {
		return nil, err
	}

	if err := r.attachProjects(ctx, tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *taskRepository) GetByUserID(ctx context.Context, userID string) ([]*entity.Task, error) {
	query := `
		SELECT id, user_id, title, due_at, priority, status, project_id, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return r.queryTasks(ctx, query, userID)
}

func (r *taskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]*entity.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*entity.Task
	for rows.Next() {
		var task entity.Task
		err := rows.Scan(
			&task.ID,
			&task.UserID,
			&task.Title,
			&task.DueAt,
			&task.Priority,
			&task.Status,
			&task.ProjectID,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// attachProjects loads the multi-project associations for the given tasks
// in a single query.
func (r *taskRepository) attachProjects(ctx context.Context, tasks []*entity.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]string, 0, len(tasks))
	byID := make(map[string]*entity.Task, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
		byID[task.ID] = task
	}

	query := `SELECT task_id, project_id FROM task_projects WHERE task_id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query task projects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, projectID string
		if err := rows.Scan(&taskID, &projectID); err != nil {
			return fmt.Errorf("failed to scan task project: %w", err)
		}
		if task, ok := byID[taskID]; ok {
			task.ProjectIDs = append(task.ProjectIDs, projectID)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating task projects: %w", err)
	}

	return nil
}
