package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-timesheet/internal/model"
	"github.com/Tiliavir/trivial-timesheet/internal/storage"
	"github.com/Tiliavir/trivial-timesheet/internal/timecalc"
)

var (
	listToday bool
	listWeek  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List time entries",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listToday, "today", false, "Show today's entries (default)")
	listCmd.Flags().BoolVar(&listWeek, "week", false, "Show this week's entries")
}

func runList(cmd *cobra.Command, args []string) error {
	now := app.now()

	from, to := timecalc.StartOfDay(now), timecalc.EndOfDay(now)
	if listWeek {
		from, to = timecalc.WeekRange(now)
	}

	entries, err := storage.LoadRange(app.cfg.Storage.Dir, from, to)
	if err != nil {
		return storageError(err)
	}

	printList(cmd.OutOrStdout(), entries)
	return nil
}

// printList groups entries by date and prints them with a per-day total.
func printList(out io.Writer, entries []model.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No entries found.")
		return
	}

	var day []model.Entry
	flush := func() {
		if len(day) == 0 {
			return
		}
		fmt.Fprintln(out, day[0].Date)
		for _, e := range day {
			fmt.Fprintf(out, "  %s\n", describeEntry(e))
		}
		fmt.Fprintf(out, "  total %s\n", timecalc.FormatDuration(storage.Timesheet(day).TimeSpent()))
		day = day[:0]
	}

	for _, e := range entries {
		if len(day) > 0 && day[0].Date != e.Date {
			flush()
		}
		day = append(day, e)
	}
	flush()
}

func describeEntry(e model.Entry) string {
	s := describe(e.TaskEntry())
	if e.Source != SourceManual && e.Source != "" {
		s += " [" + e.Source + "]"
	}
	return s
}
