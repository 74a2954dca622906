package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-timesheet/internal/model"
	"github.com/Tiliavir/trivial-timesheet/internal/storage"
	"github.com/Tiliavir/trivial-timesheet/internal/timecalc"
	"github.com/Tiliavir/trivial-timesheet/internal/timesheet"
)

// SourceManual marks entries typed on the command line.
const SourceManual = "manual"

var (
	addTask    string
	addProject string
	addDate    string
	addComment string
)

var addCmd = &cobra.Command{
	Use:   "add <start> [end]",
	Short: "Record a time entry; without an end it stays open",
	Long: `Record a time entry from 12-hour clock times.

  tts add "9:05 AM" "10:30 AM" --project ECM --task review
  tts add "1:15 PM"                      (open until "tts stop")
  tts add "8:12 AM" "8:13 AM" --date 2010-08-14`,
	Args: cobra.MaximumNArgs(2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addTask, "task", "", "Task description")
	addCmd.Flags().StringVar(&addProject, "project", "", "Project name (default from config)")
	addCmd.Flags().StringVar(&addDate, "date", "", "Date as YYYY-MM-DD (default today)")
	addCmd.Flags().StringVar(&addComment, "comment", "", "Optional comment")
}

func runAdd(cmd *cobra.Command, args []string) error {
	now := app.now()
	clock := timesheet.WithClock(func() time.Time { return now })

	var start string
	opts := timesheet.AddOptions{
		Task:    addTask,
		Project: addProject,
		Date:    addDate,
	}
	if len(args) > 0 {
		start = args[0]
	}
	if len(args) > 1 {
		opts.End = args[1]
	}
	if opts.Project == "" {
		opts.Project = app.cfg.Defaults.Project
	}

	// Validate against an empty sheet first: the effective date decides
	// which day file the entry belongs to.
	probe := timesheet.New(clock)
	if err := probe.AddTime(start, opts); err != nil {
		return err
	}
	day := probe.Tasks()[0].Date

	base := app.cfg.Storage.Dir
	df, err := storage.LoadDay(base, day)
	if err != nil {
		return storageError(err)
	}

	sheet := storage.Timesheet(df.Entries, clock)
	if open := sheet.CurrentTask(); open != nil {
		app.logger.Warn("previous entry is still open and stops being current",
			"since", open.Start.Format(timesheet.ClockLayout))
	}
	if err := sheet.AddTime(start, opts); err != nil {
		return err
	}

	added := sheet.Tasks()[sheet.Len()-1]
	entry := model.FromTaskEntry(timecalc.GenerateID(added.Start), SourceManual, added)
	if addComment != "" {
		comment := addComment
		entry.Comment = &comment
	}
	if err := storage.UpdateEntry(base, day, entry); err != nil {
		return storageError(err)
	}
	app.logger.Debug("entry saved", "id", entry.ID, "day", entry.Date)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Added %s\n", describe(added))
	fmt.Fprintf(out, "%s total: %s\n", entry.Date, timecalc.FormatDuration(sheet.TimeSpent()))
	return nil
}

// describe renders an entry as "09:05 AM–10:30 AM  ECM / review (1h 25m)".
func describe(te timesheet.TaskEntry) string {
	label := model.FromTaskEntry("", "", te).Label()
	if te.IsOpen() {
		return fmt.Sprintf("%s–open  %s", te.Start.Format(timesheet.ClockLayout), label)
	}
	return fmt.Sprintf("%s–%s  %s (%s)",
		te.Start.Format(timesheet.ClockLayout),
		te.End.Format(timesheet.ClockLayout),
		label,
		timecalc.FormatDuration(te.Duration()))
}
