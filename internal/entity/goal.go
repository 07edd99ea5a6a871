package entity

import (
	"time"
)

type GoalStatus string

const (
	GoalStatusActive   GoalStatus = "active"
	GoalStatusAchieved GoalStatus = "achieved"
	GoalStatusArchived GoalStatus = "archived"
)

type Goal struct {
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"user_id" db:"user_id"`
	Title     string     `json:"title" db:"title"`
	Status    GoalStatus `json:"status" db:"status"`
	Progress  int        `json:"progress" db:"progress"` // percent, 0..100
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
