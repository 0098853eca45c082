// Package reports renders human-readable summaries of previously
// written CSV exports, for eyeballing a scrape without opening the
// files in a spreadsheet.
package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
)

// LatestFile returns the newest file in dir matching the glob
// pattern, by modification time.
func LatestFile(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no files matching %q in %s", pattern, dir)
	}

	sort.Slice(matches, func(i, j int) bool {
		a, errA := os.Stat(matches[i])
		b, errB := os.Stat(matches[j])
		if errA != nil || errB != nil {
			return matches[i] > matches[j]
		}
		return a.ModTime().After(b.ModTime())
	})
	return matches[0], nil
}

func readCSV(path string) (header []string, rows [][]string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s: empty csv", path)
	}
	return records[0], records[1:], nil
}

func columnIndex(header []string, name string) int {
	for i, column := range header {
		if column == name {
			return i
		}
	}
	return -1
}

// RenderCalendar prints per-category and per-impact counts for a
// calendar export.
func RenderCalendar(w io.Writer, path string) error {
	header, rows, err := readCSV(path)
	if err != nil {
		return err
	}

	categoryCol := columnIndex(header, "category")
	impactCol := columnIndex(header, "impact")

	categories := map[string]int{}
	impacts := map[string]int{}
	for _, row := range rows {
		if categoryCol >= 0 {
			label := row[categoryCol]
			if label == "" {
				label = "(none)"
			}
			categories[label]++
		}
		if impactCol >= 0 {
			label := row[impactCol]
			if label == "" {
				label = "unknown"
			}
			impacts[label]++
		}
	}

	fmt.Fprintf(w, "%s: %d events\n\n", filepath.Base(path), len(rows))
	renderCounts(w, "Category", categories)
	renderCounts(w, "Impact", impacts)
	return nil
}

// RenderIndicators prints every indicator row plus a per-bucket
// status tally.
func RenderIndicators(w io.Writer, path string) error {
	header, rows, err := readCSV(path)
	if err != nil {
		return err
	}

	bucketCol := columnIndex(header, "indicator_bucket")
	nameCol := columnIndex(header, "indicator_name")
	valueCol := columnIndex(header, "latest_value")
	unitCol := columnIndex(header, "unit")
	noteCol := columnIndex(header, "raw_source_note")
	if bucketCol < 0 || nameCol < 0 {
		return fmt.Errorf("%s: not an indicators export", path)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Bucket", "Indicator", "Value", "Unit", "Note"})
	for _, row := range rows {
		t.AppendRow(table.Row{
			row[bucketCol],
			row[nameCol],
			cell(row, valueCol),
			cell(row, unitCol),
			cell(row, noteCol),
		})
	}
	t.Render()
	return nil
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}

func renderCounts(w io.Writer, label string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{label, "Events"})
	for _, key := range keys {
		t.AppendRow(table.Row{key, counts[key]})
	}
	t.Render()
	fmt.Fprintln(w)
}
