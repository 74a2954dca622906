package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/trivial-timesheet/internal/model"
	"github.com/Tiliavir/trivial-timesheet/internal/storage"
	"github.com/Tiliavir/trivial-timesheet/internal/timecalc"
)

var (
	exportFormat string
	exportToday  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export this week's entries to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md, yaml, toml")
	exportCmd.Flags().BoolVar(&exportToday, "today", false, "Export only today's entries")
}

// exportDoc is the document root for the yaml and toml formats.
type exportDoc struct {
	From    string        `yaml:"from" toml:"from"`
	To      string        `yaml:"to" toml:"to"`
	Entries []model.Entry `yaml:"entries" toml:"entries"`
}

func runExport(cmd *cobra.Command, args []string) error {
	now := app.now()
	from, to := timecalc.WeekRange(now)
	if exportToday {
		from, to = timecalc.StartOfDay(now), timecalc.EndOfDay(now)
	}

	entries, err := storage.LoadRange(app.cfg.Storage.Dir, from, to)
	if err != nil {
		return storageError(err)
	}
	if entries == nil {
		entries = []model.Entry{}
	}

	doc := exportDoc{From: from.Format("2006-01-02"), To: to.Format("2006-01-02"), Entries: entries}
	return writeExport(cmd.OutOrStdout(), doc, exportFormat)
}

func writeExport(out io.Writer, doc exportDoc, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(doc.Entries, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	case "toml":
		if err := toml.NewEncoder(out).Encode(doc); err != nil {
			return fmt.Errorf("encoding TOML: %w", err)
		}
	case "md":
		printList(out, doc.Entries)
	case "csv":
		printCSV(out, doc.Entries)
	default:
		return fmt.Errorf("unknown format %q (want csv, json, md, yaml or toml)", format)
	}
	return nil
}

func printCSV(out io.Writer, entries []model.Entry) {
	fmt.Fprintln(out, "date,project,task,comment,start,end,duration_minutes,source")
	for _, e := range entries {
		endStr := ""
		if e.End != nil {
			endStr = e.End.Format(time.RFC3339)
		}
		durMin := int64(0)
		if e.DurationSeconds != nil {
			durMin = *e.DurationSeconds / 60
		}
		fmt.Fprintf(out, "%s,%s,%s,%s,%s,%s,%d,%s\n",
			csvEscape(e.Date),
			csvEscape(deref(e.Project)),
			csvEscape(deref(e.Task)),
			csvEscape(deref(e.Comment)),
			csvEscape(e.Start.Format(time.RFC3339)),
			csvEscape(endStr),
			durMin,
			csvEscape(e.Source),
		)
	}
}

// csvEscape quotes a field containing a comma, quote or line break, doubling inner quotes.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
