package timewindow

import (
	"time"
)

// LocalParts is the timezone-resolved view of an instant. The eligibility
// arithmetic below only ever looks at these parts, so it stays independent
// of how the resolution happened.
type LocalParts struct {
	Year        int
	Month       time.Month
	Day         int
	Weekday     time.Weekday
	MinuteOfDay int
	Location    *time.Location
}

// Resolve converts an absolute instant into the local calendar of the given
// IANA timezone. An empty timezone falls back to UTC; an unknown one is an
// error and the caller skips the user for this run.
func Resolve(instant time.Time, timezone string) (LocalParts, error) {
	loc := time.UTC
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return LocalParts{}, err
		}
		loc = l
	}

	local := instant.In(loc)
	return LocalParts{
		Year:        local.Year(),
		Month:       local.Month(),
		Day:         local.Day(),
		Weekday:     local.Weekday(),
		MinuteOfDay: local.Hour()*60 + local.Minute(),
		Location:    loc,
	}, nil
}
