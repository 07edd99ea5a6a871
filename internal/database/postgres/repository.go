package repository

import (
	"context"
	"time"

	"github.com/tagwerk-app/reminder-service/internal/entity"
)

type DeliveryRepository interface {
	// Reserve attempts to claim an event key by inserting a pending row.
	// It returns false without error when the (channel, event key) pair
	// already exists; that is the normal "someone already handled this"
	// path, not a failure.
	Reserve(ctx context.Context, userID, eventKey string, meta map[string]string) (bool, error)

	// Finalize merges metaPatch into the record's metadata and writes the
	// terminal status. Callers treat a failure here as log-only.
	Finalize(ctx context.Context, eventKey string, status entity.DeliveryStatus, metaPatch map[string]string) error

	GetByEventKey(ctx context.Context, eventKey string) (*entity.DeliveryRecord, error)
	GetByUserID(ctx context.Context, userID string) ([]*entity.DeliveryRecord, error)
	CountByStatus(ctx context.Context, status entity.DeliveryStatus) (int, error)
}

type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID string) (*entity.NotificationSettings, error)
	GetTaskStartRecipients(ctx context.Context) ([]*entity.NotificationSettings, error)
	GetWeeklyReviewRecipients(ctx context.Context) ([]*entity.NotificationSettings, error)
	Upsert(ctx context.Context, settings *entity.NotificationSettings) error
}

type TaskRepository interface {
	// GetDueBetween returns a user's not-completed tasks whose due instant
	// lies in [from, to], project associations included.
	GetDueBetween(ctx context.Context, userID string, from, to time.Time) ([]*entity.Task, error)
	GetByUserID(ctx context.Context, userID string) ([]*entity.Task, error)
}

type GoalRepository interface {
	GetByUserID(ctx context.Context, userID string) ([]*entity.Goal, error)
}

type ProjectRepository interface {
	GetTitlesByIDs(ctx context.Context, ids []string) (map[string]string, error)
}
