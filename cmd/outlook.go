package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-timesheet/internal/msgraph"
	"github.com/Tiliavir/trivial-timesheet/internal/timecalc"
	"github.com/Tiliavir/trivial-timesheet/internal/timesheet"
)

var (
	outlookSyncFrom    string
	outlookSyncTo      string
	outlookSyncDate    string
	outlookSyncDryRun  bool
	outlookSyncProject string
	outlookSyncTZ      string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import Outlook calendar events as closed entries",
	Args:  cobra.NoArgs,
	RunE:  runOutlookSync,
}

func init() {
	outlookSyncCmd.Flags().StringVar(&outlookSyncFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	outlookSyncCmd.Flags().StringVar(&outlookSyncDate, "date", "", "Sync a specific date (YYYY-MM-DD)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned operations without writing")
	outlookSyncCmd.Flags().StringVar(&outlookSyncProject, "project", "", "Project for imported events (default from config)")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for event times (default from config)")
	outlookCmd.AddCommand(outlookSyncCmd)
}

// syncRange resolves --date / --from / --to into an inclusive day range.
func syncRange(now time.Time, date, from, to string) (time.Time, time.Time, error) {
	loc := now.Location()
	switch {
	case date != "":
		d, err := timesheet.ParseDate("--date", date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return d, timecalc.EndOfDay(d), nil

	case from != "" || to != "":
		if from == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("--from is required when --to is specified")
		}
		f, err := timesheet.ParseDate("--from", from, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end := timecalc.EndOfDay(now)
		if to != "" {
			t, err := timesheet.ParseDate("--to", to, loc)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			end = timecalc.EndOfDay(t)
		}
		if end.Before(f) {
			return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", to, from)
		}
		return f, end, nil
	}
	return timecalc.StartOfDay(now), timecalc.EndOfDay(now), nil
}

func runOutlookSync(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	from, to, err := syncRange(app.now(), outlookSyncDate, outlookSyncFrom, outlookSyncTo)
	if err != nil {
		return err
	}

	ocfg := app.cfg.Outlook
	project := outlookSyncProject
	if project == "" {
		project = ocfg.DefaultProject
	}
	timezone := outlookSyncTZ
	if timezone == "" {
		timezone = ocfg.Timezone
	}

	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Fprintf(out, "Syncing Outlook events (%s → %s)%s...\n\n",
		from.Format("2006-01-02"), to.Format("2006-01-02"), dryTag)

	ctx := cmd.Context()
	oauthCfg := msgraph.OAuth2Config(ocfg.TenantID, ocfg.ClientID)
	store := msgraph.NewTokenStore(app.home)

	tok, err := msgraph.Authenticate(ctx, oauthCfg, store, out, app.logger)
	if err != nil {
		return storageError(fmt.Errorf("authentication failed: %w", err))
	}

	client := msgraph.NewClient(ctx, tok, oauthCfg, store)
	events, err := client.GetCalendarView(ctx, from, to, timezone)
	if err != nil {
		return storageError(fmt.Errorf("fetching calendar events: %w", err))
	}
	app.logger.Debug("fetched calendar events", "count", len(events))

	result, err := msgraph.SyncEvents(events, msgraph.SyncOptions{
		Base:     app.cfg.Storage.Dir,
		DryRun:   outlookSyncDryRun,
		Project:  project,
		Timezone: timezone,
		Out:      out,
	})
	if err != nil {
		return storageError(err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "  %d imported\n", result.Imported)
	fmt.Fprintf(out, "  %d skipped\n", result.Skipped)
	fmt.Fprintf(out, "  %d updated\n", result.Updated)
	if result.Errors > 0 {
		fmt.Fprintf(out, "  %d errors\n", result.Errors)
	}
	return syncOutcome(result)
}

// syncOutcome turns failed events into an error. Events that could not be
// mapped are the calendar's problem (exit 1); day-file failures exit 2.
func syncOutcome(result msgraph.SyncResult) error {
	if result.Errors == 0 {
		return nil
	}
	err := fmt.Errorf("%d events could not be synced", result.Errors)
	if result.StorageErrors > 0 {
		return storageError(err)
	}
	return err
}
