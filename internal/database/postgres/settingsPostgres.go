package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tagwerk-app/reminder-service/internal/entity"
)

type settingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

const settingsColumns = `
	user_id, phone_number, timezone, task_start_enabled, weekly_review_enabled,
	task_start_template, weekly_review_template, weekly_send_time, week_starts_monday,
	created_at, updated_at
`

func (r *settingsRepository) GetByUserID(ctx context.Context, userID string) (*entity.NotificationSettings, error) {
	query := `SELECT ` + settingsColumns + ` FROM notification_settings WHERE user_id = $1`

	settings, err := scanSettings(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, entity.ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return settings, nil
}

// GetTaskStartRecipients returns all users eligible for task-start
// reminders: flag enabled and a phone number on file.
func (r *settingsRepository) GetTaskStartRecipients(ctx context.Context) ([]*entity.NotificationSettings, error) {
	query := `
		SELECT ` + settingsColumns + `
		FROM notification_settings
		WHERE task_start_enabled = TRUE AND phone_number IS NOT NULL AND phone_number <> ''
	`
	return r.queryRecipients(ctx, query)
}

func (r *settingsRepository) GetWeeklyReviewRecipients(ctx context.Context) ([]*entity.NotificationSettings, error) {
	query := `
		SELECT ` + settingsColumns + `
		FROM notification_settings
		WHERE weekly_review_enabled = TRUE AND phone_number IS NOT NULL AND phone_number <> ''
	`
	return r.queryRecipients(ctx, query)
}

func (r *settingsRepository) queryRecipients(ctx context.Context, query string) ([]*entity.NotificationSettings, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipients: %w", err)
	}
	defer rows.Close()

	var recipients []*entity.NotificationSettings
	for rows.Next() {
		settings, err := scanSettings(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settings: %w", err)
		}
		recipients = append(recipients, settings)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipients: %w", err)
	}

	return recipients, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, settings *entity.NotificationSettings) error {
	query := `
		INSERT INTO notification_settings (
			user_id, phone_number, timezone, task_start_enabled, weekly_review_enabled,
			task_start_template, weekly_review_template, weekly_send_time, week_starts_monday,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			phone_number = EXCLUDED.phone_number,
			timezone = EXCLUDED.timezone,
			task_start_enabled = EXCLUDED.task_start_enabled,
			weekly_review_enabled = EXCLUDED.weekly_review_enabled,
			task_start_template = EXCLUDED.task_start_template,
			weekly_review_template = EXCLUDED.weekly_review_template,
			weekly_send_time = EXCLUDED.weekly_send_time,
			week_starts_monday = EXCLUDED.week_starts_monday,
			updated_at = EXCLUDED.updated_at
	`

	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		settings.UserID,
		settings.PhoneNumber,
		settings.Timezone,
		settings.TaskStartEnabled,
		settings.WeeklyReviewEnabled,
		settings.TaskStartTemplate,
		settings.WeeklyReviewTemplate,
		settings.WeeklySendTime,
		settings.WeekStartsMonday,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}

	settings.UpdatedAt = now
	return nil
}

func scanSettings(row rowScanner) (*entity.NotificationSettings, error) {
	var settings entity.NotificationSettings
	err := row.Scan(
		&settings.UserID,
		&settings.PhoneNumber,
		&settings.Timezone,
		&settings.TaskStartEnabled,
		&settings.WeeklyReviewEnabled,
		&settings.TaskStartTemplate,
		&settings.WeeklyReviewTemplate,
		&settings.WeeklySendTime,
		&settings.WeekStartsMonday,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}
