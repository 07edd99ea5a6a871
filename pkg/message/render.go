// Package message renders outgoing reminder bodies from user-editable
// templates. Placeholders use the {name} form; users may bring their own
// template text, so rendering has to survive anything they type.
package message

import (
	"regexp"
	"strings"
	"time"

	"github.com/tagwerk-app/reminder-service/internal/entity"
)

const (
	// Gateway payload limits per event type.
	taskStartMaxLen    = 1500
	weeklyReviewMaxLen = 1800

	// NoProjectLabel is used when a task has no resolvable project.
	NoProjectLabel = "Kein Projekt"
)

const defaultTaskStartTemplate = "⏰ Erinnerung: \"{taskTitle}\" startet um {startTime}.\n" +
	"Projekt: {projectTitle}\n" +
	"Priorität: {priority}"

const defaultWeeklyReviewTemplate = "📋 Dein Wochenrückblick ({weekRange})\n\n{review}"

var placeholderPattern = regexp.MustCompile(`\{[a-zA-Z]+\}`)

// TaskStartContext holds the placeholder values for a task-start reminder.
type TaskStartContext struct {
	TaskTitle    string
	StartTime    string
	ProjectTitle string
	Priority     string
}

// WeeklyReviewContext holds the placeholder values for a weekly review.
type WeeklyReviewContext struct {
	WeekRange string
	Review    string
}

// RenderTaskStart fills the task-start template. A blank template falls
// back to the built-in default; placeholders the renderer does not know
// stay in the text verbatim.
func RenderTaskStart(template string, ctx TaskStartContext) string {
	tmpl := strings.TrimSpace(template)
	if tmpl == "" {
		tmpl = defaultTaskStartTemplate
	}

	replacer := strings.NewReplacer(
		"{taskTitle}", ctx.TaskTitle,
		"{startTime}", ctx.StartTime,
		"{projectTitle}", ctx.ProjectTitle,
		"{priority}", ctx.Priority,
	)

	body := replacer.Replace(tmpl)
	if strings.TrimSpace(body) == "" {
		body = replacer.Replace(defaultTaskStartTemplate)
	}
	return truncate(body, taskStartMaxLen)
}

// RenderWeeklyReview fills the weekly-review template. Unknown placeholders
// are removed from the output rather than kept.
func RenderWeeklyReview(template string, ctx WeeklyReviewContext) string {
	tmpl := strings.TrimSpace(template)
	if tmpl == "" {
		tmpl = defaultWeeklyReviewTemplate
	}

	values := map[string]string{
		"{weekRange}": ctx.WeekRange,
		"{review}":    ctx.Review,
	}

	body := placeholderPattern.ReplaceAllStringFunc(tmpl, func(ph string) string {
		return values[ph]
	})
	if strings.TrimSpace(body) == "" {
		body = placeholderPattern.ReplaceAllStringFunc(defaultWeeklyReviewTemplate, func(ph string) string {
			return values[ph]
		})
	}
	return truncate(body, weeklyReviewMaxLen)
}

// FormatStartTime renders a due instant in the recipient's local time for
// human reading. When the timezone cannot be resolved it falls back to a
// plain UTC rendering instead of failing the reminder.
func FormatStartTime(due time.Time, timezone string) string {
	loc, err := time.LoadLocation(timezone)
	if timezone == "" || err != nil {
		return due.UTC().Format("02.01.2006 15:04") + " UTC"
	}
	return due.In(loc).Format("02.01.2006 um 15:04 Uhr")
}

// PriorityLabel localizes a task priority.
func PriorityLabel(p entity.TaskPriority) string {
	switch p {
	case entity.TaskPriorityHigh:
		return "hoch"
	case entity.TaskPriorityMedium:
		return "mittel"
	case entity.TaskPriorityLow:
		return "niedrig"
	default:
		return "keine"
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
