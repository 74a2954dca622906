// Package timesheet builds labeled work intervals from clock text and
// answers questions about them: total time spent and the interval still open.
package timesheet

import (
	"sync"
	"time"
)

// AddOptions holds the optional fields of AddTime. An empty string means the
// field was not supplied: no End leaves the entry open, no Task or Project is
// stored as nil, and no Date means today.
type AddOptions struct {
	End     string
	Task    string
	Project string
	Date    string
}

// Option configures a Timesheet.
type Option func(*Timesheet)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(ts *Timesheet) {
		ts.now = now
	}
}

// WithEntries seeds the timesheet with previously recorded entries, in order.
func WithEntries(entries ...TaskEntry) Option {
	return func(ts *Timesheet) {
		for _, e := range entries {
			ts.tasks = append(ts.tasks, e.clone())
		}
	}
}

// Timesheet owns an ordered, append-only sequence of task entries.
type Timesheet struct {
	mu    sync.Mutex
	now   func() time.Time
	tasks []TaskEntry
}

// New returns an empty Timesheet.
func New(opts ...Option) *Timesheet {
	ts := &Timesheet{now: time.Now}
	for _, opt := range opts {
		opt(ts)
	}
	return ts
}

// AddTime validates the textual input and appends one entry. Nothing is
// appended when any field fails validation.
func (ts *Timesheet) AddTime(start string, opts AddOptions) error {
	e, err := ts.build(start, opts)
	if err != nil {
		return err
	}

	ts.mu.Lock()
	ts.tasks = append(ts.tasks, e)
	ts.mu.Unlock()
	return nil
}

func (ts *Timesheet) build(start string, opts AddOptions) (TaskEntry, error) {
	if start == "" {
		return TaskEntry{}, ErrMissingArgument
	}

	now := ts.now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	sh, sm, err := ParseClock("start time", start)
	if err != nil {
		return TaskEntry{}, err
	}

	var end *time.Time
	var eh, em int
	if opts.End != "" {
		if eh, em, err = ParseClock("end time", opts.End); err != nil {
			return TaskEntry{}, err
		}
	}

	if opts.Date != "" {
		if date, err = ParseDate("date", opts.Date, now.Location()); err != nil {
			return TaskEntry{}, err
		}
	}

	startAt, err := at("start time", start, date, sh, sm)
	if err != nil {
		return TaskEntry{}, err
	}
	if opts.End != "" {
		t, err := at("end time", opts.End, date, eh, em)
		if err != nil {
			return TaskEntry{}, err
		}
		end = &t
	}

	e := TaskEntry{
		Start: startAt,
		End:   end,
		Date:  date,
	}
	if opts.Task != "" {
		task := opts.Task
		e.Task = &task
	}
	if opts.Project != "" {
		project := opts.Project
		e.Project = &project
	}
	return e, nil
}

// TimeSpent sums End - Start over every closed entry.
func (ts *Timesheet) TimeSpent() time.Duration {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	var total time.Duration
	for _, e := range ts.tasks {
		total += e.Duration()
	}
	return total
}

// CurrentTask returns the most recently added entry if it is still open.
// Older open entries are never reported.
func (ts *Timesheet) CurrentTask() *TaskEntry {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if len(ts.tasks) == 0 {
		return nil
	}
	last := ts.tasks[len(ts.tasks)-1]
	if !last.IsOpen() {
		return nil
	}
	c := last.clone()
	return &c
}

// Tasks returns a copy of the recorded entries in insertion order.
func (ts *Timesheet) Tasks() []TaskEntry {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	out := make([]TaskEntry, len(ts.tasks))
	for i, e := range ts.tasks {
		out[i] = e.clone()
	}
	return out
}

// Len returns the number of recorded entries.
func (ts *Timesheet) Len() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.tasks)
}
