package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/trivial-timesheet/internal/model"
	"github.com/Tiliavir/trivial-timesheet/internal/timesheet"
)

func TestFromTaskEntry(t *testing.T) {
	clock := func() time.Time { return time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC) }
	ts := timesheet.New(timesheet.WithClock(clock))
	require.NoError(t, ts.AddTime("9:00 AM", timesheet.AddOptions{End: "10:30 AM", Project: "ECM"}))

	e := model.FromTaskEntry("id-1", "manual", ts.Tasks()[0])

	assert.Equal(t, "id-1", e.ID)
	assert.Equal(t, "2026-02-27", e.Date)
	assert.Equal(t, "manual", e.Source)
	assert.Equal(t, "ECM", *e.Project)
	assert.Nil(t, e.Task)
	require.NotNil(t, e.DurationSeconds)
	assert.Equal(t, int64(5400), *e.DurationSeconds)

	back := e.TaskEntry()
	assert.Equal(t, ts.Tasks()[0], back)
}

func TestFromTaskEntry_Open(t *testing.T) {
	ts := timesheet.New()
	require.NoError(t, ts.AddTime("9:00 AM", timesheet.AddOptions{}))

	e := model.FromTaskEntry("id-2", "manual", ts.Tasks()[0])
	assert.Nil(t, e.End)
	assert.Nil(t, e.DurationSeconds)
}

func TestTaskEntry_MissingDate(t *testing.T) {
	e := model.Entry{Start: time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)}

	te := e.TaskEntry()
	assert.Equal(t, time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC), te.Date)
}

func TestLabel(t *testing.T) {
	p, task := "ECM", "review"
	tests := []struct {
		entry model.Entry
		want  string
	}{
		{model.Entry{}, "(unlabeled)"},
		{model.Entry{Project: &p}, "ECM"},
		{model.Entry{Task: &task}, "review"},
		{model.Entry{Project: &p, Task: &task}, "ECM / review"},
	}
	for _, tt := range tests {
		if got := tt.entry.Label(); got != tt.want {
			t.Errorf("Label() = %q, want %q", got, tt.want)
		}
	}
}
