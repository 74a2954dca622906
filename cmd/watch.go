package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-timesheet/internal/storage"
	"github.com/Tiliavir/trivial-timesheet/internal/timesheet"
	"github.com/Tiliavir/trivial-timesheet/internal/watch"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live view of the open entry and today's total",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Second, "Refresh interval")
}

// todaySheet rebuilds today's timesheet from storage.
func todaySheet() (*timesheet.Timesheet, error) {
	df, err := storage.LoadDay(app.cfg.Storage.Dir, app.now())
	if err != nil {
		return nil, err
	}
	return storage.Timesheet(df.Entries), nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchInterval <= 0 {
		return fmt.Errorf("--interval must be positive, got %s", watchInterval)
	}
	m := watch.New(todaySheet, app.now, watchInterval)
	p := tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithOutput(cmd.OutOrStdout()))
	_, err := p.Run()
	return err
}
