package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tiliavir/trivial-timesheet/internal/model"
	"github.com/Tiliavir/trivial-timesheet/internal/storage"
)

func strPtr(s string) *string { return &s }

func TestLoadDayNotExist(t *testing.T) {
	base := t.TempDir()
	day := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	df, err := storage.LoadDay(base, day)
	if err != nil {
		t.Fatalf("LoadDay on missing file: %v", err)
	}
	if df.Date != "2026-02-27" {
		t.Errorf("LoadDay date = %q, want %q", df.Date, "2026-02-27")
	}
	if len(df.Entries) != 0 {
		t.Errorf("LoadDay entries = %d, want 0", len(df.Entries))
	}
}

func TestSaveDayAndLoadDay(t *testing.T) {
	base := t.TempDir()
	day := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)

	df := model.DayFile{
		Date: "2026-02-27",
		Entries: []model.Entry{
			{
				ID:      "test-id-1",
				Date:    "2026-02-27",
				Project: strPtr("ECM"),
				Start:   day,
				Source:  "manual",
			},
		},
	}

	if err := storage.SaveDay(base, day, df); err != nil {
		t.Fatalf("SaveDay: %v", err)
	}

	loaded, err := storage.LoadDay(base, day)
	if err != nil {
		t.Fatalf("LoadDay after save: %v", err)
	}
	if len(loaded.Entries) != 1 {
		t.Fatalf("LoadDay entries = %d, want 1", len(loaded.Entries))
	}
	if p := loaded.Entries[0].Project; p == nil || *p != "ECM" {
		t.Errorf("LoadDay project = %v, want %q", p, "ECM")
	}
	if loaded.Entries[0].Task != nil {
		t.Errorf("LoadDay task = %v, want nil", loaded.Entries[0].Task)
	}
}

func TestLoadDayCorrupt(t *testing.T) {
	base := t.TempDir()
	day := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)

	dir := filepath.Join(base, "2026", "02")
	path := filepath.Join(dir, "27.json")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{bad json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := storage.LoadDay(base, day)
	if !errors.Is(err, storage.ErrCorrupt) {
		t.Fatalf("LoadDay err = %v, want ErrCorrupt", err)
	}
	if _, err2 := os.Stat(path + ".corrupt"); os.IsNotExist(err2) {
		t.Error("expected backup file to exist after corrupt JSON")
	}
}

func TestUpdateEntry(t *testing.T) {
	base := t.TempDir()
	day := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)

	entry := model.Entry{ID: "e1", Project: strPtr("P1"), Start: day, Source: "manual"}
	if err := storage.UpdateEntry(base, day, entry); err != nil {
		t.Fatalf("UpdateEntry (insert): %v", err)
	}

	entry.Task = strPtr("updated task")
	if err := storage.UpdateEntry(base, day, entry); err != nil {
		t.Fatalf("UpdateEntry (update): %v", err)
	}

	df, err := storage.LoadDay(base, day)
	if err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	if len(df.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(df.Entries))
	}
	if df.Entries[0].Task == nil || *df.Entries[0].Task != "updated task" {
		t.Errorf("task = %v, want %q", df.Entries[0].Task, "updated task")
	}
}

func TestFindActiveEntry(t *testing.T) {
	base := t.TempDir()
	now := time.Date(2026, 2, 27, 15, 0, 0, 0, time.UTC)

	active, _, err := storage.FindActiveEntry(base, now)
	if err != nil {
		t.Fatal(err)
	}
	if active != nil {
		t.Fatal("expected no active entry on empty storage")
	}

	// An open entry yesterday is found across the day boundary.
	yesterday := now.AddDate(0, 0, -1)
	open := model.Entry{ID: "active-1", Date: "2026-02-26", Start: yesterday.Add(-time.Hour), Source: "manual"}
	if err := storage.UpdateEntry(base, yesterday, open); err != nil {
		t.Fatal(err)
	}

	active, day, err := storage.FindActiveEntry(base, now)
	if err != nil {
		t.Fatal(err)
	}
	if active == nil || active.ID != "active-1" {
		t.Fatalf("active = %v, want active-1", active)
	}
	if day.Day() != 26 {
		t.Errorf("active day = %v, want the 26th", day)
	}
}

func TestFindActiveEntryNewestOnly(t *testing.T) {
	base := t.TempDir()
	now := time.Date(2026, 2, 27, 15, 0, 0, 0, time.UTC)
	end := now.Add(-time.Hour)

	entries := []model.Entry{
		{ID: "older-open", Start: now.Add(-5 * time.Hour), Source: "manual"},
		{ID: "closed", Start: now.Add(-2 * time.Hour), End: &end, Source: "manual"},
	}
	for _, e := range entries {
		if err := storage.UpdateEntry(base, now, e); err != nil {
			t.Fatal(err)
		}
	}

	active, _, err := storage.FindActiveEntry(base, now)
	if err != nil {
		t.Fatal(err)
	}
	if active != nil {
		t.Errorf("active = %q, want none when the last entry is closed", active.ID)
	}
}

func TestLoadRange(t *testing.T) {
	base := t.TempDir()
	mon := time.Date(2026, 2, 23, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		d := mon.AddDate(0, 0, i)
		if err := storage.UpdateEntry(base, d, model.Entry{ID: d.Format("0102"), Start: d}); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := storage.LoadRange(base, mon, mon.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("LoadRange entries = %d, want 2", len(entries))
	}
	if entries[0].ID != "0223" || entries[1].ID != "0224" {
		t.Errorf("LoadRange order = %q, %q", entries[0].ID, entries[1].ID)
	}
}

func TestTimesheet(t *testing.T) {
	start := time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	entries := []model.Entry{
		{ID: "a", Date: "2026-02-27", Start: start, End: &end},
		{ID: "b", Date: "2026-02-27", Start: end.Add(time.Minute), Task: strPtr("open")},
	}

	ts := storage.Timesheet(entries)
	if got := ts.TimeSpent(); got != 90*time.Minute {
		t.Errorf("TimeSpent = %v, want 1h30m", got)
	}
	cur := ts.CurrentTask()
	if cur == nil || cur.Task == nil || *cur.Task != "open" {
		t.Errorf("CurrentTask = %v, want the open entry", cur)
	}
}
