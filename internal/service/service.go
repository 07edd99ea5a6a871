package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tagwerk-app/reminder-service/internal/entity"
)

// Gateway is the outbound messaging collaborator. It either delivers the
// body to the destination or fails immediately; it never retries.
type Gateway interface {
	SendMessage(ctx context.Context, to, body string) error
}

// DedupeCache is the optional fast-path in front of the delivery ledger.
// Implementations must be safe to skip: the ledger alone guarantees
// at-most-once delivery.
type DedupeCache interface {
	Seen(ctx context.Context, eventKey string) bool
	MarkSeen(ctx context.Context, eventKey string)
}

// TaskReminderService runs one task-start reminder batch.
type TaskReminderService interface {
	Run(ctx context.Context) (*entity.RunSummary, error)
}

// WeeklyReviewService runs one weekly-review reminder batch.
type WeeklyReviewService interface {
	Run(ctx context.Context) (*entity.RunSummary, error)
}

type SettingsService interface {
	Sync(ctx context.Context, userID string, req *SyncSettingsRequest) (*entity.NotificationSettings, error)
	GetByUser(ctx context.Context, userID string) (*entity.NotificationSettings, error)
}

// SyncSettingsRequest is the payload of the settings-sync endpoint.
type SyncSettingsRequest struct {
	PhoneNumber          string `json:"phone_number"`
	Timezone             string `json:"timezone"`
	TaskStartEnabled     bool   `json:"task_start_enabled"`
	WeeklyReviewEnabled  bool   `json:"weekly_review_enabled"`
	TaskStartTemplate    string `json:"task_start_template"`
	WeeklyReviewTemplate string `json:"weekly_review_template"`
	WeeklySendTime       string `json:"weekly_send_time"`
	WeekStartsMonday     *bool  `json:"week_starts_monday"`
}

// TaskStartEventKey identifies one task-start reminder occurrence. The due
// instant is part of the key on purpose: a rescheduled task is a new event,
// not a resend.
func TaskStartEventKey(taskID string, due time.Time) string {
	return fmt.Sprintf("task-start:%s:%s", taskID, due.UTC().Format(time.RFC3339))
}

// WeeklyReviewEventKey identifies one user's review for one calendar week.
func WeeklyReviewEventKey(userID, weekKey string) string {
	return fmt.Sprintf("weekly-review:%s:%s", userID, weekKey)
}
