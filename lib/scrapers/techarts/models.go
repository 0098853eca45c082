package techarts

import (
	"math"
	"strconv"
	"strings"
)

// Target names one indicator series to pull: the chart symbol plus
// the public page the reading is attributed to.
type Target struct {
	Bucket    string `json:"bucket"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	SourceURL string `json:"source_url"`
}

// Observation is one indicator reading. A failed fetch still produces
// an Observation: Status carries the failure stage and the value
// fields stay empty. Rows are never dropped.
type Observation struct {
	Bucket      string
	Name        string
	LatestValue string
	Unit        string
	// set only for daily-frequency series with at least two points
	DayChange string
	ObsDate   string
	SourceURL string
	Status    Status
	Note      string
}

// formatValue renders a reading to at most 6 decimals with trailing
// zeros and a trailing point stripped.
func formatValue(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ""
	}
	formatted := strconv.FormatFloat(value, 'f', 6, 64)
	formatted = strings.TrimRight(formatted, "0")
	return strings.TrimRight(formatted, ".")
}

func latestPoint(data [][]any) (value float64, obsDate string, ok bool) {
	if len(data) == 0 {
		return 0, "", false
	}
	last := data[len(data)-1]
	if len(last) == 0 {
		return 0, "", false
	}
	value, ok = last[0].(float64)
	if len(last) >= 4 {
		obsDate, _ = last[3].(string)
	}
	return value, obsDate, ok
}

// dayChange is last minus previous, computed only for daily series.
func dayChange(serie *Serie) string {
	if !strings.Contains(strings.ToLower(serie.Frequency), "day") {
		return ""
	}
	if len(serie.Data) < 2 {
		return ""
	}
	last, lastOK := valueAt(serie.Data, len(serie.Data)-1)
	prev, prevOK := valueAt(serie.Data, len(serie.Data)-2)
	if !lastOK || !prevOK {
		return ""
	}
	return formatValue(last - prev)
}

func valueAt(data [][]any, index int) (float64, bool) {
	if len(data[index]) == 0 {
		return 0, false
	}
	value, ok := data[index][0].(float64)
	return value, ok
}
