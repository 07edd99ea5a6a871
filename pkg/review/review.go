// Package review builds the body of the weekly review message from a
// user's full task and goal snapshot. It is a pure function of its inputs.
package review

import (
	"fmt"
	"strings"
	"time"

	"github.com/tagwerk-app/reminder-service/internal/entity"
	"github.com/tagwerk-app/reminder-service/pkg/timewindow"
)

// BuildReview summarizes the week containing weekAnchor: tasks completed or
// still open within the week bounds, plus progress on active goals.
func BuildReview(tasks []*entity.Task, goals []*entity.Goal, weekAnchor time.Time, weekStartsMonday bool) string {
	weekStart, weekEnd := timewindow.WeekBounds(weekAnchor, weekStartsMonday)
	// Compare against the end of the last day of the week.
	weekEnd = weekEnd.Add(12 * time.Hour)
	weekStart = weekStart.Add(-12 * time.Hour)

	var completed, open, dueThisWeek int
	for _, t := range tasks {
		switch t.Status {
		case entity.TaskStatusCompleted:
			if t.UpdatedAt.After(weekStart) && t.UpdatedAt.Before(weekEnd) {
				completed++
			}
		default:
			open++
			if t.DueAt != nil && t.DueAt.After(weekStart) && t.DueAt.Before(weekEnd) {
				dueThisWeek++
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Erledigt diese Woche: %d\n", completed)
	fmt.Fprintf(&b, "Noch offen: %d", open)
	if dueThisWeek > 0 {
		fmt.Fprintf(&b, " (davon %d diese Woche fällig)", dueThisWeek)
	}

	var active []*entity.Goal
	for _, g := range goals {
		if g.Status == entity.GoalStatusActive {
			active = append(active, g)
		}
	}
	if len(active) > 0 {
		b.WriteString("\n\nZiele:")
		for _, g := range active {
			fmt.Fprintf(&b, "\n• %s – %d%%", g.Title, g.Progress)
		}
	}

	return b.String()
}
