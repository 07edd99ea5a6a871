package message

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tagwerk-app/reminder-service/internal/entity"
)

func taskCtx() TaskStartContext {
	return TaskStartContext{
		TaskTitle:    "Write report",
		StartTime:    "30.08.2026 um 11:01 Uhr",
		ProjectTitle: NoProjectLabel,
		Priority:     "hoch",
	}
}

func TestRenderTaskStart_DefaultTemplate(t *testing.T) {
	want := "⏰ Erinnerung: \"Write report\" startet um 30.08.2026 um 11:01 Uhr.\n" +
		"Projekt: Kein Projekt\n" +
		"Priorität: hoch"

	tests := []struct {
		name     string
		template string
	}{
		{name: "empty template", template: ""},
		{name: "whitespace-only template", template: "   \n\t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, want, RenderTaskStart(tt.template, taskCtx()))
		})
	}
}

func TestRenderTaskStart_CustomTemplate(t *testing.T) {
	body := RenderTaskStart("Los geht's: {taskTitle} ({priority})", taskCtx())
	assert.Equal(t, "Los geht's: Write report (hoch)", body)
}

// Unknown placeholders stay in the text for task-start templates.
func TestRenderTaskStart_UnknownPlaceholderKept(t *testing.T) {
	body := RenderTaskStart("{taskTitle} {somethingElse}", taskCtx())
	assert.Equal(t, "Write report {somethingElse}", body)
}

func TestRenderTaskStart_WhitespaceResultFallsBack(t *testing.T) {
	ctx := taskCtx()
	ctx.TaskTitle = ""

	body := RenderTaskStart("  {taskTitle}  ", ctx)
	assert.Contains(t, body, "Erinnerung")
}

func TestRenderTaskStart_CapsLength(t *testing.T) {
	body := RenderTaskStart(strings.Repeat("a", 4000), taskCtx())
	assert.Len(t, []rune(body), 1500)
}

func TestRenderWeeklyReview_DefaultTemplate(t *testing.T) {
	body := RenderWeeklyReview("", WeeklyReviewContext{
		WeekRange: "05.01.2026 – 11.01.2026",
		Review:    "Erledigt diese Woche: 3",
	})

	assert.Equal(t, "📋 Dein Wochenrückblick (05.01.2026 – 11.01.2026)\n\nErledigt diese Woche: 3", body)
}

// Unknown placeholders are removed for weekly-review templates.
func TestRenderWeeklyReview_UnknownPlaceholderRemoved(t *testing.T) {
	body := RenderWeeklyReview("{weekRange} {unknown} {review}", WeeklyReviewContext{
		WeekRange: "KW 2",
		Review:    "alles gut",
	})
	assert.Equal(t, "KW 2  alles gut", body)
}

func TestRenderWeeklyReview_WhitespaceResultFallsBack(t *testing.T) {
	body := RenderWeeklyReview("{unknown}", WeeklyReviewContext{
		WeekRange: "KW 2",
		Review:    "alles gut",
	})
	assert.Contains(t, body, "Wochenrückblick")
}

func TestRenderWeeklyReview_CapsLength(t *testing.T) {
	body := RenderWeeklyReview("", WeeklyReviewContext{
		WeekRange: "KW 2",
		Review:    strings.Repeat("b", 4000),
	})
	assert.Len(t, []rune(body), 1800)
}

func TestFormatStartTime(t *testing.T) {
	due := time.Date(2026, 8, 30, 9, 1, 0, 0, time.UTC)

	// Berlin is UTC+2 in August.
	assert.Equal(t, "30.08.2026 um 11:01 Uhr", FormatStartTime(due, "Europe/Berlin"))

	// Unresolvable timezone falls back to a plain UTC rendering.
	assert.Equal(t, "30.08.2026 09:01 UTC", FormatStartTime(due, "Nowhere/Special"))
	assert.Equal(t, "30.08.2026 09:01 UTC", FormatStartTime(due, ""))
}

func TestPriorityLabel(t *testing.T) {
	tests := []struct {
		priority entity.TaskPriority
		want     string
	}{
		{priority: entity.TaskPriorityHigh, want: "hoch"},
		{priority: entity.TaskPriorityMedium, want: "mittel"},
		{priority: entity.TaskPriorityLow, want: "niedrig"},
		{priority: entity.TaskPriorityNone, want: "keine"},
		{priority: entity.TaskPriority("weird"), want: "keine"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PriorityLabel(tt.priority))
	}
}
