package timewindow

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tagwerk-app/reminder-service/internal/entity"
)

const (
	// Task-start reminders fire a fixed lead time before the due instant,
	// with enough slack that a cron firing every few minutes neither skips
	// nor double-counts a task.
	TaskStartLead  = 60 * time.Minute
	TaskStartSlack = 7 * time.Minute

	// The weekly window opens at the scheduled minute and stays open for
	// this many minutes. It never fires early.
	WeeklyTolerance = 9
)

// TaskStartWindow returns the inclusive [from, to] interval of due instants
// eligible for a task-start reminder at instant now. Due instants are
// absolute, so no per-user conversion is involved.
func TaskStartWindow(now time.Time) (time.Time, time.Time) {
	return now.Add(TaskStartLead - TaskStartSlack), now.Add(TaskStartLead + TaskStartSlack)
}

// InTaskStartWindow reports whether due falls inside the window, bounds
// included on both ends.
func InTaskStartWindow(now, due time.Time) bool {
	from, to := TaskStartWindow(now)
	return !due.Before(from) && !due.After(to)
}

// WeeklyWindowInfo carries everything the weekly-review processor needs
// once a user's window has been resolved.
type WeeklyWindowInfo struct {
	Location         *time.Location
	WeekStartsMonday bool
	WeekKey          string // canonical week identifier, start date as YYYY-MM-DD
	WeekRange        string // human-readable, e.g. "24.08.2026 – 30.08.2026"
	Anchor           time.Time
}

// WeeklyWindow decides whether instant now lies inside the user's weekly
// review window. It returns (nil, false, nil) outside the window and an
// error only when the timezone cannot be resolved.
func WeeklyWindow(now time.Time, timezone, sendTime string, weekStartsMonday bool) (*WeeklyWindowInfo, bool, error) {
	parts, err := Resolve(now, timezone)
	if err != nil {
		return nil, false, fmt.Errorf("failed to resolve timezone %q: %w", timezone, err)
	}

	if parts.Weekday != time.Sunday {
		return nil, false, nil
	}

	schedMinutes := ParseSendTime(sendTime)
	if parts.MinuteOfDay < schedMinutes || parts.MinuteOfDay > schedMinutes+WeeklyTolerance {
		return nil, false, nil
	}

	// Anchor at local noon so that week arithmetic is immune to DST
	// transitions shifting midnight.
	anchor := time.Date(parts.Year, parts.Month, parts.Day, 12, 0, 0, 0, parts.Location)
	weekStart, weekEnd := WeekBounds(anchor, weekStartsMonday)

	return &WeeklyWindowInfo{
		Location:         parts.Location,
		WeekStartsMonday: weekStartsMonday,
		WeekKey:          weekStart.Format("2006-01-02"),
		WeekRange:        weekStart.Format("02.01.2006") + " – " + weekEnd.Format("02.01.2006"),
		Anchor:           anchor,
	}, true, nil
}

// WeekBounds returns the first and last day of the week containing anchor,
// honoring the user's week-start convention.
func WeekBounds(anchor time.Time, weekStartsMonday bool) (time.Time, time.Time) {
	var offset int
	if weekStartsMonday {
		offset = (int(anchor.Weekday()) + 6) % 7
	} else {
		offset = int(anchor.Weekday())
	}
	weekStart := anchor.AddDate(0, 0, -offset)
	return weekStart, weekStart.AddDate(0, 0, 6)
}

// ValidSendTime reports whether s is a well-formed "HH:MM" preference.
func ValidSendTime(s string) bool {
	_, _, ok := splitHHMM(strings.TrimSpace(s))
	return ok
}

// ParseSendTime parses a "HH:MM" preference into minutes since local
// midnight. Malformed input is silently replaced by the default send time.
func ParseSendTime(s string) int {
	h, m, ok := splitHHMM(strings.TrimSpace(s))
	if !ok {
		h, m, _ = splitHHMM(entity.DefaultWeeklySendTime)
	}
	return h*60 + m
}

func splitHHMM(s string) (int, int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
