// Package timeparse normalizes the free-form time text found in
// calendar cells ("8:30 AM", "14:00", "All Day", "--") into UTC
// instants anchored to the calendar date the row belongs to.
package timeparse

import (
	"strings"
	"time"

	"econdata-backend/lib/textutil"
)

// time text that denotes "no concrete instant", an expected state
// rather than a parse failure
var sentinels = []string{"all day", "all-day", "tentative", "tba", "n/a", "--"}

var layouts = []string{
	"3:04 PM",
	"3:04PM",
	"15:04:05",
	"15:04",
	"3 PM",
	"3PM",
}

// Parse converts raw time text plus a contextual calendar date into a
// UTC instant. It returns nil for empty text, sentinel values, a
// missing date context, or anything the layouts cannot digest. Absent
// time is a valid state, so no error is ever returned.
func Parse(rawText string, dateContext *time.Time, siteTZ *time.Location) *time.Time {
	text := textutil.CleanText(rawText)
	if text == "" || dateContext == nil {
		return nil
	}

	lowered := strings.ToLower(text)
	if lowered == "na" || textutil.ContainsAny(lowered, sentinels...) {
		return nil
	}

	if siteTZ == nil {
		siteTZ = time.UTC
	}

	normalized := strings.ToUpper(text)
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, normalized)
		if err != nil {
			continue
		}
		local := time.Date(
			dateContext.Year(), dateContext.Month(), dateContext.Day(),
			parsed.Hour(), parsed.Minute(), parsed.Second(), 0,
			siteTZ,
		)
		utc := local.UTC()
		return &utc
	}

	return nil
}

// ParseDate parses a bare YYYY-MM-DD token, the format embedded in
// calendar row class attributes.
func ParseDate(s string) *time.Time {
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &parsed
}

// ExtractDateFromClasses returns the first YYYY-MM-DD token found in a
// sequence of class names.
func ExtractDateFromClasses(classes []string) string {
	for _, cls := range classes {
		token := strings.TrimSpace(cls)
		if len(token) == 10 && token[4] == '-' && token[7] == '-' {
			return token
		}
	}
	return ""
}
