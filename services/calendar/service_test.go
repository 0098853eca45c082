package calendar

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"econdata-backend/lib/scrapers/tecalendar"
	"econdata-backend/lib/timezone"
)

func displayTime(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02 15:04", value, timezone.Display)
	require.NoError(t, err)
	return &parsed
}

func TestFilterWindow(t *testing.T) {
	start := time.Date(2025, time.March, 3, 0, 0, 0, 0, timezone.Display)
	end := time.Date(2025, time.March, 17, 23, 59, 59, 0, timezone.Display)

	events := []tecalendar.Event{
		{EventID: "inside", Display: displayTime(t, "2025-03-10 09:30")},
		{EventID: "before", Display: displayTime(t, "2025-03-01 09:30")},
		{EventID: "after", Display: displayTime(t, "2025-03-20 09:30")},
		{EventID: "all-day", Title: "Bank Holiday"},
	}

	kept := filterWindow(events, start, end)
	ids := make([]string, 0, len(kept))
	for _, event := range kept {
		ids = append(ids, event.EventID)
	}
	require.Equal(t, []string{"inside", "all-day"}, ids)
}

func TestFinishDedupesAndWrites(t *testing.T) {
	dir := t.TempDir()
	service := Service{config: Config{OutputDir: dir, WindowDays: 7}}

	start := time.Date(2025, time.March, 3, 0, 0, 0, 0, timezone.Display)
	end := time.Date(2025, time.March, 17, 23, 59, 59, 0, timezone.Display)
	when := displayTime(t, "2025-03-10 09:30")

	events := []tecalendar.Event{
		{EventID: "a", Title: "CPI YoY", Display: when, SourceURL: "https://example.com/cpi"},
		{EventID: "a", Title: "CPI YoY", Display: when, SourceURL: "https://example.com/cpi"},
		{EventID: "b", Title: "Retail Sales", Display: when, SourceURL: "https://example.com/retail"},
	}

	result, err := service.finish(events, start, end)
	require.NoError(t, err)
	require.Len(t, result.Events, 2)
	require.Equal(t, filepath.Join(dir, "calendar_US_20250303_20250317.csv"), result.Path)

	file, err := os.Open(result.Path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	// header plus the two surviving events
	require.Len(t, records, 3)
}
