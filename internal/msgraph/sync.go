package msgraph

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Tiliavir/trivial-timesheet/internal/model"
	"github.com/Tiliavir/trivial-timesheet/internal/storage"
	"github.com/Tiliavir/trivial-timesheet/internal/timecalc"
	"github.com/Tiliavir/trivial-timesheet/internal/timesheet"
)

// SourceOutlook marks entries imported from the calendar.
const SourceOutlook = "outlook"

// eventClockLayout renders event times in the form timesheet.AddTime accepts.
const eventClockLayout = "3:04 PM"

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Updated  int
	Errors   int
	// StorageErrors counts the subset of Errors caused by reading or
	// writing day files rather than by the event itself.
	StorageErrors int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	Base     string
	DryRun   bool
	Project  string
	Timezone string
	// Out receives one progress line per event. Nil discards them.
	Out io.Writer
}

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}

	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("cannot parse graph time %q", dt)
}

// buildComment combines bodyPreview and location into a comment string.
func buildComment(event CalendarEvent) *string {
	parts := []string{}
	if event.BodyPreview != "" {
		parts = append(parts, event.BodyPreview)
	}
	if event.Location.DisplayName != "" {
		parts = append(parts, event.Location.DisplayName)
	}
	if len(parts) == 0 {
		return nil
	}
	s := strings.Join(parts, "\n")
	return &s
}

// shouldSkip returns true if the event should not be imported.
func shouldSkip(event CalendarEvent) bool {
	switch {
	case event.IsCancelled, event.IsAllDay:
		return true
	case event.Sensitivity == "private", event.ShowAs == "free":
		return true
	case event.Start.DateTime == "" || event.End.DateTime == "":
		return true
	}
	return false
}

// MapEventToEntry converts a calendar event into an entry by feeding its
// wall-clock times through timesheet.AddTime, so imported entries obey the
// same rules as typed ones. Seconds are dropped. An event ending exactly at
// the following midnight is recorded up to 11:59 PM; events that run past
// midnight are rejected.
func MapEventToEntry(event CalendarEvent, timezone, project string) (model.Entry, time.Time, error) {
	startTime, err := parseGraphTime(event.Start.DateTime, timezone)
	if err != nil {
		return model.Entry{}, time.Time{}, errors.Wrap(err, "parsing start time")
	}
	endTime, err := parseGraphTime(event.End.DateTime, timezone)
	if err != nil {
		return model.Entry{}, time.Time{}, errors.Wrap(err, "parsing end time")
	}
	endTime = endTime.In(startTime.Location())
	if endTime.Equal(timecalc.StartOfDay(startTime).AddDate(0, 0, 1)) {
		// Ends at the following midnight: keep it on the start's day.
		endTime = endTime.Add(-time.Minute)
	}
	if !timecalc.SameDay(startTime, endTime) {
		return model.Entry{}, time.Time{}, errors.Errorf("event spans midnight (%s to %s)",
			startTime.Format(time.RFC3339), endTime.Format(time.RFC3339))
	}

	ts := timesheet.New(timesheet.WithClock(func() time.Time { return startTime }))
	err = ts.AddTime(startTime.Format(eventClockLayout), timesheet.AddOptions{
		End:     endTime.Format(eventClockLayout),
		Task:    event.Subject,
		Project: project,
		Date:    startTime.Format(timesheet.DateLayout),
	})
	if err != nil {
		return model.Entry{}, time.Time{}, errors.Wrap(err, "building entry")
	}

	te := ts.Tasks()[0]
	entry := model.FromTaskEntry(timecalc.GenerateID(te.Start), SourceOutlook, te)
	entry.ExternalID = event.ID
	entry.Comment = buildComment(event)
	return entry, te.Start, nil
}

// findByExternalID searches loaded entries for one with the given external_id.
func findByExternalID(entries []model.Entry, externalID string) *model.Entry {
	for i := range entries {
		if entries[i].ExternalID == externalID {
			return &entries[i]
		}
	}
	return nil
}

func sameContent(a, b model.Entry) bool {
	return a.Label() == b.Label() &&
		a.Start.Equal(b.Start) &&
		a.End != nil && b.End != nil && a.End.Equal(*b.End)
}

// SyncEvents maps events to entries and persists new or changed ones.
func SyncEvents(events []CalendarEvent, opts SyncOptions) (SyncResult, error) {
	var result SyncResult
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	for _, event := range events {
		if shouldSkip(event) {
			continue
		}

		entry, startTime, err := MapEventToEntry(event, opts.Timezone, opts.Project)
		if err != nil {
			fmt.Fprintf(out, "  ! Error mapping event %q: %v\n", event.Subject, err)
			result.Errors++
			continue
		}

		existing, err := storage.LoadDay(opts.Base, startTime)
		if err != nil {
			fmt.Fprintf(out, "  ! Error loading day for %q: %v\n", event.Subject, err)
			result.Errors++
			result.StorageErrors++
			continue
		}

		verb := "Imported"
		if found := findByExternalID(existing.Entries, event.ID); found != nil {
			if sameContent(*found, entry) {
				fmt.Fprintf(out, "  – Skipped:  %s (already exists)\n", event.Subject)
				result.Skipped++
				continue
			}
			// Keep the original ID so the stored entry is replaced in place.
			entry.ID = found.ID
			verb = "Updated"
		}

		if !opts.DryRun {
			if err := storage.UpdateEntry(opts.Base, startTime, entry); err != nil {
				fmt.Fprintf(out, "  ! Error saving %q: %v\n", event.Subject, err)
				result.Errors++
				result.StorageErrors++
				continue
			}
		}

		dur := ""
		if entry.DurationSeconds != nil {
			dur = fmt.Sprintf(" (%s)", timecalc.FormatDuration(time.Duration(*entry.DurationSeconds)*time.Second))
		}
		if verb == "Updated" {
			fmt.Fprintf(out, "  ↑ Updated:  %s%s\n", event.Subject, dur)
			result.Updated++
		} else {
			fmt.Fprintf(out, "  ✓ Imported: %s%s\n", event.Subject, dur)
			result.Imported++
		}
	}

	return result, nil
}
