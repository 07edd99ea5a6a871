package entity

import (
	"time"
)

// DefaultWeeklySendTime is used whenever the stored send time is missing
// or not parseable as HH:MM.
const DefaultWeeklySendTime = "19:00"

type NotificationSettings struct {
	UserID               string    `json:"user_id" db:"user_id"`
	PhoneNumber          *string   `json:"phone_number" db:"phone_number"`
	Timezone             string    `json:"timezone" db:"timezone"`
	TaskStartEnabled     bool      `json:"task_start_enabled" db:"task_start_enabled"`
	WeeklyReviewEnabled  bool      `json:"weekly_review_enabled" db:"weekly_review_enabled"`
	TaskStartTemplate    *string   `json:"task_start_template" db:"task_start_template"`
	WeeklyReviewTemplate *string   `json:"weekly_review_template" db:"weekly_review_template"`
	WeeklySendTime       string    `json:"weekly_send_time" db:"weekly_send_time"`
	WeekStartsMonday     bool      `json:"week_starts_monday" db:"week_starts_monday"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

// Phone returns the phone number or "" when none is stored.
func (s *NotificationSettings) Phone() string {
	if s.PhoneNumber == nil {
		return ""
	}
	return *s.PhoneNumber
}

// Template returns a custom template string or "" when none is stored.
func Template(t *string) string {
	if t == nil {
		return ""
	}
	return *t
}
