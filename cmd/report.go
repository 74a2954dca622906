package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-timesheet/internal/model"
	"github.com/Tiliavir/trivial-timesheet/internal/storage"
	"github.com/Tiliavir/trivial-timesheet/internal/timecalc"
)

const noProject = "(no project)"

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show this week's time per project",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

type projectTotal struct {
	Project         string `json:"project"`
	DurationMinutes int64  `json:"duration_minutes"`
	spent           time.Duration
}

type weekReport struct {
	Week         string         `json:"week"`
	Projects     []projectTotal `json:"projects"`
	TotalMinutes int64          `json:"total_minutes"`
	total        time.Duration
}

func runReport(cmd *cobra.Command, args []string) error {
	now := app.now()
	from, to := timecalc.WeekRange(now)

	entries, err := storage.LoadRange(app.cfg.Storage.Dir, from, to)
	if err != nil {
		return storageError(err)
	}

	r := buildReport(timecalc.ISOWeekLabel(now), entries)
	return printReport(cmd.OutOrStdout(), r, reportFormat)
}

// buildReport totals closed entries per project, sorted by project name.
func buildReport(label string, entries []model.Entry) weekReport {
	byProject := map[string][]model.Entry{}
	for _, e := range entries {
		p := noProject
		if e.Project != nil {
			p = *e.Project
		}
		byProject[p] = append(byProject[p], e)
	}

	r := weekReport{Week: label, Projects: []projectTotal{}}
	for p, es := range byProject {
		spent := storage.Timesheet(es).TimeSpent()
		r.Projects = append(r.Projects, projectTotal{
			Project:         p,
			DurationMinutes: int64(spent / time.Minute),
			spent:           spent,
		})
		r.total += spent
	}
	sort.Slice(r.Projects, func(i, j int) bool { return r.Projects[i].Project < r.Projects[j].Project })
	r.TotalMinutes = int64(r.total / time.Minute)
	return r
}

func printReport(out io.Writer, r weekReport, format string) error {
	switch format {
	case "csv":
		fmt.Fprintln(out, "project,duration_minutes")
		for _, p := range r.Projects {
			fmt.Fprintf(out, "%s,%d\n", csvEscape(p.Project), p.DurationMinutes)
		}
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	case "md":
		fmt.Fprintf(out, "Week %s\n", r.Week)
		fmt.Fprintln(out, "--------------------------------")
		for _, p := range r.Projects {
			fmt.Fprintf(out, "%-20s%s\n", p.Project, timecalc.FormatDuration(p.spent))
		}
		fmt.Fprintln(out, "--------------------------------")
		fmt.Fprintf(out, "%-20s%s\n", "Total", timecalc.FormatDuration(r.total))
	default:
		return fmt.Errorf("unknown format %q (want md, csv or json)", format)
	}
	return nil
}
