package model

import (
	"time"

	"github.com/Tiliavir/trivial-timesheet/internal/timesheet"
)

// Entry is the persisted form of a timesheet.TaskEntry.
type Entry struct {
	ID              string     `json:"id" yaml:"id" toml:"id"`
	ExternalID      string     `json:"external_id,omitempty" yaml:"external_id,omitempty" toml:"external_id,omitempty"`
	Date            string     `json:"date" yaml:"date" toml:"date"`
	Project         *string    `json:"project" yaml:"project" toml:"project,omitempty"`
	Task            *string    `json:"task" yaml:"task" toml:"task,omitempty"`
	Comment         *string    `json:"comment" yaml:"comment" toml:"comment,omitempty"`
	Start           time.Time  `json:"start" yaml:"start" toml:"start"`
	End             *time.Time `json:"end" yaml:"end" toml:"end,omitempty"`
	DurationSeconds *int64     `json:"duration_seconds" yaml:"duration_seconds" toml:"duration_seconds,omitempty"`
	Source          string     `json:"source" yaml:"source" toml:"source"`
}

// DayFile is the top-level structure stored in each daily JSON file.
type DayFile struct {
	Date    string  `json:"date"`
	Entries []Entry `json:"entries"`
}

// FromTaskEntry converts a recorded timesheet entry into its persisted form.
func FromTaskEntry(id, source string, te timesheet.TaskEntry) Entry {
	e := Entry{
		ID:      id,
		Date:    te.Date.Format(timesheet.DateLayout),
		Project: te.Project,
		Task:    te.Task,
		Start:   te.Start,
		End:     te.End,
		Source:  source,
	}
	if te.End != nil {
		dur := int64(te.Duration().Seconds())
		e.DurationSeconds = &dur
	}
	return e
}

// TaskEntry converts the persisted form back into a timesheet entry.
// Entries written before Date was recorded fall back to the start's date.
func (e Entry) TaskEntry() timesheet.TaskEntry {
	loc := e.Start.Location()
	date, err := time.ParseInLocation(timesheet.DateLayout, e.Date, loc)
	if err != nil {
		date = time.Date(e.Start.Year(), e.Start.Month(), e.Start.Day(), 0, 0, 0, 0, loc)
	}
	return timesheet.TaskEntry{
		Start:   e.Start,
		End:     e.End,
		Task:    e.Task,
		Project: e.Project,
		Date:    date,
	}
}

// Label returns "project / task" using whichever parts are set.
func (e Entry) Label() string {
	switch {
	case e.Project != nil && e.Task != nil:
		return *e.Project + " / " + *e.Task
	case e.Project != nil:
		return *e.Project
	case e.Task != nil:
		return *e.Task
	default:
		return "(unlabeled)"
	}
}
