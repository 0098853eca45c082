// Package export writes the pipeline's output contracts: calendar,
// indicator, and meeting CSVs with fixed column sets and
// deterministic row order.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"econdata-backend/lib/scrapers/fomc"
	"econdata-backend/lib/scrapers/tecalendar"
	"econdata-backend/lib/scrapers/techarts"
)

// CalendarPath names a calendar export after its scrape window.
func CalendarPath(dir string, start, end time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("calendar_US_%s_%s.csv",
		start.Format("20060102"), end.Format("20060102")))
}

// IndicatorsPath names an indicator export after its as-of date.
func IndicatorsPath(dir string, asOf time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("indicators_US_%s.csv", asOf.Format("20060102")))
}

func MeetingsPath(dir string, asOf time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("fomc_meetings_%s.csv", asOf.Format("20060102")))
}

var calendarHeader = []string{
	"event_id", "datetime_utc", "datetime_kst", "title", "category",
	"impact", "country", "raw_time_text", "source_url",
	"actual", "previous", "consensus", "forecast",
}

// WriteCalendar saves events sorted by (datetime_kst, title). Rows
// without a timestamp sort first under the empty string, which keeps
// all-day events at the top of their file.
func WriteCalendar(path string, events []tecalendar.Event) error {
	sorted := make([]tecalendar.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := formatInstant(sorted[i].Display), formatInstant(sorted[j].Display)
		if a != b {
			return a < b
		}
		return sorted[i].Title < sorted[j].Title
	})

	rows := make([][]string, 0, len(sorted))
	for _, event := range sorted {
		impact := ""
		if event.Impact > 0 {
			impact = strconv.Itoa(event.Impact)
		}
		rows = append(rows, []string{
			event.EventID,
			formatInstant(event.UTC),
			formatInstant(event.Display),
			event.Title,
			event.Category,
			impact,
			event.Country,
			event.RawTimeText,
			event.SourceURL,
			event.Actual,
			event.Previous,
			event.Consensus,
			event.Forecast,
		})
	}
	return writeCSV(path, calendarHeader, rows)
}

var indicatorsHeader = []string{
	"indicator_bucket", "indicator_name", "latest_value", "unit",
	"day_change", "month_change", "year_change", "obs_date",
	"source_url", "raw_source_note",
}

// WriteIndicators saves observations sorted by (bucket, name). Failed
// fetches keep their row with empty value columns and the failure
// reason in raw_source_note. The month/year change columns are part
// of the contract but not yet computed upstream.
func WriteIndicators(path string, observations []techarts.Observation) error {
	sorted := make([]techarts.Observation, len(observations))
	copy(sorted, observations)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Bucket != sorted[j].Bucket {
			return sorted[i].Bucket < sorted[j].Bucket
		}
		return sorted[i].Name < sorted[j].Name
	})

	rows := make([][]string, 0, len(sorted))
	for _, observation := range sorted {
		rows = append(rows, []string{
			observation.Bucket,
			observation.Name,
			observation.LatestValue,
			observation.Unit,
			observation.DayChange,
			"",
			"",
			observation.ObsDate,
			observation.SourceURL,
			observation.Note,
		})
	}
	return writeCSV(path, indicatorsHeader, rows)
}

var meetingsHeader = []string{
	"meeting_id", "year", "month", "dates", "meeting_type",
	"release_date", "statement_url", "minutes_url",
	"press_conference_transcript_url", "meeting_page_url",
}

// WriteMeetings saves the resolved meeting set in release order,
// newest first.
func WriteMeetings(path string, meetings []*fomc.Meeting) error {
	sorted := make([]*fomc.Meeting, len(meetings))
	copy(sorted, meetings)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].ReleaseDate, sorted[j].ReleaseDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	rows := make([][]string, 0, len(sorted))
	for _, meeting := range sorted {
		release := ""
		if meeting.ReleaseDate != nil {
			release = meeting.ReleaseDate.Format("2006-01-02")
		}
		statement := meeting.StatementHTMLURL
		if statement == "" {
			statement = meeting.StatementURL
		}
		rows = append(rows, []string{
			meeting.ID(),
			strconv.Itoa(meeting.Year),
			meeting.Month,
			meeting.Dates,
			meeting.Type,
			release,
			statement,
			meeting.FinalMinutesURL(),
			meeting.TranscriptPDFURL,
			meeting.PageURL,
		})
	}
	return writeCSV(path, meetingsHeader, rows)
}

func formatInstant(instant *time.Time) string {
	if instant == nil {
		return ""
	}
	return instant.Format(time.RFC3339)
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}
