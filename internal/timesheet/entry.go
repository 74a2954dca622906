package timesheet

import "time"

// TaskEntry is one recorded work interval.
type TaskEntry struct {
	Start   time.Time
	End     *time.Time
	Task    *string
	Project *string
	// Date is the effective calendar date at midnight.
	Date time.Time
}

// IsOpen reports whether the interval has no end yet.
func (e TaskEntry) IsOpen() bool {
	return e.End == nil
}

// Duration returns End - Start measured on the wall clock, or zero for an
// open entry. A daylight-saving shift between the two does not count.
func (e TaskEntry) Duration() time.Duration {
	if e.End == nil {
		return 0
	}
	return wallClock(*e.End).Sub(wallClock(e.Start))
}

// clone returns a copy that shares no pointers with e.
func (e TaskEntry) clone() TaskEntry {
	c := e
	if e.End != nil {
		end := *e.End
		c.End = &end
	}
	c.Task = cloneString(e.Task)
	c.Project = cloneString(e.Project)
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
