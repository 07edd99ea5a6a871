package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tagwerk-app/reminder-service/internal/entity"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestBuildReview(t *testing.T) {
	// Sunday 2026-01-11, week runs Monday 05 to Sunday 11.
	anchor := time.Date(2026, 1, 11, 12, 0, 0, 0, time.UTC)

	tasks := []*entity.Task{
		{Title: "Done this week", Status: entity.TaskStatusCompleted, UpdatedAt: time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)},
		{Title: "Done long ago", Status: entity.TaskStatusCompleted, UpdatedAt: time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)},
		{Title: "Still open", Status: entity.TaskStatusOpen, DueAt: timePtr(time.Date(2026, 1, 9, 15, 0, 0, 0, time.UTC))},
		{Title: "Open, due later", Status: entity.TaskStatusInProgress},
	}
	goals := []*entity.Goal{
		{Title: "Mehr Sport", Status: entity.GoalStatusActive, Progress: 40},
		{Title: "Abgeschlossen", Status: entity.GoalStatusAchieved, Progress: 100},
	}

	body := BuildReview(tasks, goals, anchor, true)

	assert.Contains(t, body, "Erledigt diese Woche: 1")
	assert.Contains(t, body, "Noch offen: 2")
	assert.Contains(t, body, "davon 1 diese Woche fällig")
	assert.Contains(t, body, "• Mehr Sport – 40%")
	assert.NotContains(t, body, "Abgeschlossen")
}

func TestBuildReview_Empty(t *testing.T) {
	anchor := time.Date(2026, 1, 11, 12, 0, 0, 0, time.UTC)

	body := BuildReview(nil, nil, anchor, true)

	assert.Contains(t, body, "Erledigt diese Woche: 0")
	assert.Contains(t, body, "Noch offen: 0")
	assert.NotContains(t, body, "Ziele")
}
