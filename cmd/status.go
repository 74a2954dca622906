package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-timesheet/internal/storage"
	"github.com/Tiliavir/trivial-timesheet/internal/timecalc"
	"github.com/Tiliavir/trivial-timesheet/internal/timesheet"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the open entry or today's total",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	now := app.now()
	base := app.cfg.Storage.Dir
	out := cmd.OutOrStdout()

	active, _, err := storage.FindActiveEntry(base, now)
	if err != nil {
		return storageError(err)
	}

	df, err := storage.LoadDay(base, now)
	if err != nil {
		return storageError(err)
	}
	spent := storage.Timesheet(df.Entries).TimeSpent()

	if active != nil {
		te := active.TaskEntry()
		fmt.Fprintln(out, "Running:")
		if te.Project != nil {
			fmt.Fprintf(out, "  Project: %s\n", *te.Project)
		}
		if te.Task != nil {
			fmt.Fprintf(out, "  Task: %s\n", *te.Task)
		}
		fmt.Fprintf(out, "  Since: %s %s\n", active.Date, te.Start.Format(timesheet.ClockLayout))
		fmt.Fprintf(out, "  Elapsed: %s\n", timecalc.FormatClock(now.Sub(te.Start)))
		fmt.Fprintf(out, "Today: %s logged.\n", timecalc.FormatDuration(spent))
		return nil
	}

	fmt.Fprintln(out, "No open entry.")
	fmt.Fprintf(out, "Today: %s logged.\n", timecalc.FormatDuration(spent))
	return nil
}
