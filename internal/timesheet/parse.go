package timesheet

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// ClockLayout renders a time-of-day the way users enter it, e.g. "10:13 AM".
	ClockLayout = "03:04 PM"
	// DateLayout is the only accepted calendar date form.
	DateLayout = "2006-01-02"
)

// clockPattern matches H:MM AM|PM with an optional leading zero on the hour.
var clockPattern = regexp.MustCompile(`^(0?[1-9]|1[0-2]):([0-5][0-9]) ([AaPp][Mm])$`)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseClock parses a 12-hour clock string and returns the hour (0-23) and minute.
func ParseClock(field, input string) (hour, minute int, err error) {
	m := clockPattern.FindStringSubmatch(input)
	if m == nil {
		return 0, 0, &ValidationError{Field: field, Input: input, Reason: "expected H:MM AM or H:MM PM"}
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])

	pm := strings.EqualFold(m[3], "PM")
	switch {
	case hour == 12 && !pm:
		hour = 0
	case hour != 12 && pm:
		hour += 12
	}
	return hour, minute, nil
}

// ParseDate parses a YYYY-MM-DD string as midnight in loc.
func ParseDate(field, input string, loc *time.Location) (time.Time, error) {
	if !datePattern.MatchString(input) {
		return time.Time{}, &ValidationError{Field: field, Input: input, Reason: "expected YYYY-MM-DD"}
	}
	d, err := time.ParseInLocation(DateLayout, input, loc)
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Input: input, Reason: "not a calendar date"}
	}
	return d, nil
}

// at places a time-of-day on the given date. A wall-clock time skipped by a
// daylight-saving jump does not exist on that date and is rejected.
func at(field, input string, date time.Time, hour, minute int) (time.Time, error) {
	t := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
	if t.Hour() != hour || t.Minute() != minute {
		return time.Time{}, &ValidationError{
			Field:  field,
			Input:  input,
			Reason: "does not exist on " + date.Format(DateLayout) + " in " + date.Location().String(),
		}
	}
	return t, nil
}

// wallClock reads t's local date and time-of-day as if it were UTC, so
// differences follow the clock on the wall rather than elapsed real time.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
