package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-timesheet/internal/model"
	"github.com/Tiliavir/trivial-timesheet/internal/storage"
	"github.com/Tiliavir/trivial-timesheet/internal/timesheet"
)

// errNothingToStop is returned when no open entry exists.
var errNothingToStop = errors.New("no open entry to stop")

var stopComment string

var stopCmd = &cobra.Command{
	Use:   "stop [end]",
	Short: "Close the open entry at the given time (default now)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStop,
}

func init() {
	stopCmd.Flags().StringVar(&stopComment, "comment", "", "Append a comment to the entry")
}

func runStop(cmd *cobra.Command, args []string) error {
	now := app.now()
	base := app.cfg.Storage.Dir

	end := now.Format("3:04 PM")
	if len(args) > 0 {
		end = args[0]
	}

	active, day, err := storage.FindActiveEntry(base, now)
	if err != nil {
		return storageError(err)
	}
	if active == nil {
		return errNothingToStop
	}

	closed, err := closeEntry(active.TaskEntry(), end, now)
	if err != nil {
		return err
	}

	updated := model.FromTaskEntry(active.ID, active.Source, closed)
	updated.ExternalID = active.ExternalID
	updated.Comment = mergeComment(active.Comment, stopComment)
	if err := storage.UpdateEntry(base, day, updated); err != nil {
		return storageError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Stopped %s. Elapsed: %s\n",
		updated.Label(), formatElapsed(closed.Duration()))
	return nil
}

// closeEntry rebuilds an open entry with an end time. Entries are never
// mutated, so the closed one goes through AddTime like any new entry.
func closeEntry(open timesheet.TaskEntry, end string, now time.Time) (timesheet.TaskEntry, error) {
	sheet := timesheet.New(timesheet.WithClock(func() time.Time { return now }))
	err := sheet.AddTime(open.Start.Format(timesheet.ClockLayout), timesheet.AddOptions{
		End:     end,
		Task:    deref(open.Task),
		Project: deref(open.Project),
		Date:    open.Date.Format(timesheet.DateLayout),
	})
	if err != nil {
		return timesheet.TaskEntry{}, err
	}

	closed := sheet.Tasks()[0]
	if closed.End.Before(closed.Start) {
		return timesheet.TaskEntry{}, fmt.Errorf("end %s is before start %s on %s; record overnight work as two entries with \"tts add\"",
			closed.End.Format(timesheet.ClockLayout),
			closed.Start.Format(timesheet.ClockLayout),
			closed.Date.Format(timesheet.DateLayout))
	}
	return closed, nil
}

func mergeComment(existing *string, extra string) *string {
	if extra == "" {
		return existing
	}
	if existing == nil {
		return &extra
	}
	merged := *existing + "\n" + extra
	return &merged
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatElapsed(d time.Duration) string {
	seconds := int64(d / time.Second)
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
