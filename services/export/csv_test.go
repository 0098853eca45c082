package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"econdata-backend/lib/scrapers/tecalendar"
	"econdata-backend/lib/scrapers/techarts"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCalendarPath(t *testing.T) {
	start := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.January, 24, 0, 0, 0, 0, time.UTC)
	require.Equal(t,
		filepath.Join("out", "calendar_US_20250110_20250124.csv"),
		CalendarPath("out", start, end))
}

func TestWriteCalendarSortsByDisplayTimeThenTitle(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)
	later := time.Date(2025, time.January, 16, 9, 0, 0, 0, kst)
	earlier := time.Date(2025, time.January, 15, 22, 30, 0, 0, kst)

	events := []tecalendar.Event{
		{EventID: "2", Title: "PPI YoY", Display: &later},
		{EventID: "1", Title: "CPI YoY", Display: &earlier},
		{EventID: "3", Title: "Core CPI YoY", Display: &earlier},
		{EventID: "4", Title: "Fed Balance Sheet", RawTimeText: "All Day"},
	}

	path := filepath.Join(t.TempDir(), "calendar.csv")
	require.NoError(t, WriteCalendar(path, events))

	rows := readCSV(t, path)
	require.Len(t, rows, 5)
	require.Equal(t, "event_id", rows[0][0])

	// dateless first, then by local timestamp, title breaking ties
	require.Equal(t, "4", rows[1][0])
	require.Equal(t, "1", rows[2][0])
	require.Equal(t, "3", rows[3][0])
	require.Equal(t, "2", rows[4][0])
}

func TestWriteCalendarImpactColumn(t *testing.T) {
	events := []tecalendar.Event{
		{EventID: "1", Title: "CPI YoY", Impact: 3},
		{EventID: "2", Title: "Minor Print"},
	}
	path := filepath.Join(t.TempDir(), "calendar.csv")
	require.NoError(t, WriteCalendar(path, events))

	rows := readCSV(t, path)
	require.Equal(t, "3", rows[1][5])
	// unknown impact stays blank instead of zero
	require.Equal(t, "", rows[2][5])
}

func TestWriteIndicatorsKeepsFailedRows(t *testing.T) {
	observations := []techarts.Observation{
		{Bucket: "UST", Name: "US 10Y Yield", LatestValue: "4.5", Status: techarts.StatusOK},
		{Bucket: "CPI", Name: "CPI YoY", Status: techarts.StatusDecodeError, Note: "symbol=cpi yoy; decode-error"},
	}

	path := filepath.Join(t.TempDir(), "indicators.csv")
	require.NoError(t, WriteIndicators(path, observations))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	// sorted by bucket: CPI row first, with its failure preserved
	require.Equal(t, "CPI YoY", rows[1][1])
	require.Equal(t, "", rows[1][2])
	require.Equal(t, "symbol=cpi yoy; decode-error", rows[1][9])
	require.Equal(t, "US 10Y Yield", rows[2][1])
	require.Equal(t, "4.5", rows[2][2])
}
