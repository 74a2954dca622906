package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/Tiliavir/trivial-timesheet/internal/model"
	"github.com/Tiliavir/trivial-timesheet/internal/timesheet"
)

// activeWindowDays is how far back FindActiveEntry looks for an open entry.
const activeWindowDays = 7

// ErrCorrupt is returned when a day file cannot be decoded.
var ErrCorrupt = errors.New("corrupt day file")

// dayFilePath returns the path for the given date's JSON file.
func dayFilePath(base string, t time.Time) string {
	return filepath.Join(base, t.Format("2006"), t.Format("01"), t.Format("02")+".json")
}

// LoadDay loads the DayFile for the given date. Returns an empty DayFile if not found.
// A file that fails to decode is moved aside to <name>.corrupt.
func LoadDay(base string, t time.Time) (model.DayFile, error) {
	path := dayFilePath(base, t)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.DayFile{Date: t.Format(timesheet.DateLayout), Entries: []model.Entry{}}, nil
	}
	if err != nil {
		return model.DayFile{}, errors.Wrapf(err, "reading %s", path)
	}

	var df model.DayFile
	if err := json.Unmarshal(data, &df); err != nil {
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return model.DayFile{}, errors.Wrapf(ErrCorrupt, "%s (backed up to %s): %v", path, backupPath, err)
	}
	return df, nil
}

// SaveDay atomically writes a DayFile for the given date.
func SaveDay(base string, t time.Time, df model.DayFile) error {
	path := dayFilePath(base, t)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "creating directories")
	}

	data, err := json.MarshalIndent(df, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshalling JSON")
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return errors.Wrap(err, "writing temp file")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(err, "renaming temp file")
	}
	return nil
}

// UpdateEntry replaces the entry with the same ID in the day's file, or appends it.
func UpdateEntry(base string, day time.Time, entry model.Entry) error {
	df, err := LoadDay(base, day)
	if err != nil {
		return err
	}
	for i, e := range df.Entries {
		if e.ID == entry.ID {
			df.Entries[i] = entry
			return SaveDay(base, day, df)
		}
	}
	df.Entries = append(df.Entries, entry)
	return SaveDay(base, day, df)
}

// FindActiveEntry returns the open entry of the most recent day, within a
// week of now, whose last entry is open. Only the last entry of a day counts
// as current, matching timesheet.CurrentTask.
func FindActiveEntry(base string, now time.Time) (*model.Entry, time.Time, error) {
	for i := 0; i < activeWindowDays; i++ {
		day := now.AddDate(0, 0, -i)
		df, err := LoadDay(base, day)
		if err != nil {
			return nil, time.Time{}, err
		}
		if len(df.Entries) == 0 {
			continue
		}
		cur := Timesheet(df.Entries).CurrentTask()
		if cur == nil {
			return nil, time.Time{}, nil
		}
		last := df.Entries[len(df.Entries)-1]
		return &last, day, nil
	}
	return nil, time.Time{}, nil
}

// LoadRange loads all entries in [from, to] inclusive.
func LoadRange(base string, from, to time.Time) ([]model.Entry, error) {
	var entries []model.Entry
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		df, err := LoadDay(base, d)
		if err != nil {
			return nil, err
		}
		entries = append(entries, df.Entries...)
	}
	return entries, nil
}

// Timesheet rebuilds a timesheet from persisted entries, keeping their order.
func Timesheet(entries []model.Entry, opts ...timesheet.Option) *timesheet.Timesheet {
	tasks := make([]timesheet.TaskEntry, len(entries))
	for i, e := range entries {
		tasks[i] = e.TaskEntry()
	}
	return timesheet.New(append(opts, timesheet.WithEntries(tasks...))...)
}
