package entity

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	TaskPriorityNone   TaskPriority = "none"
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type Task struct {
	ID        string       `json:"id" db:"id"`
	UserID    string       `json:"user_id" db:"user_id"`
	Title     string       `json:"title" db:"title"`
	DueAt     *time.Time   `json:"due_at" db:"due_at"`
	Priority  TaskPriority `json:"priority" db:"priority"`
	Status    TaskStatus   `json:"status" db:"status"`
	ProjectID *string      `json:"project_id" db:"project_id"` // legacy single reference
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`

	// ProjectIDs holds the multi-project associations from task_projects.
	ProjectIDs []string `json:"project_ids"`
}

type Project struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id" db:"user_id"`
	Title  string `json:"title" db:"title"`
}

// ReminderCandidate is a task that fell inside the task-start window,
// with its project title already resolved.
type ReminderCandidate struct {
	Task         *Task
	ProjectTitle string
}
