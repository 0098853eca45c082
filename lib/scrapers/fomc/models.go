package fomc

import (
	"fmt"
	"strings"
	"time"
)

// DocumentType classifies a meeting material.
type DocumentType string

const (
	DocStatement  DocumentType = "statement"
	DocMinutes    DocumentType = "minutes"
	DocTranscript DocumentType = "press_conference_transcript"
	DocOther      DocumentType = "other"
)

// Document is one released material belonging to a single meeting.
type Document struct {
	Type DocumentType
	URL  string
}

// Meeting is one FOMC meeting entry parsed off the calendar page,
// keyed by (year, month label, dates range). The key never repeats
// within one scrape.
type Meeting struct {
	Year int
	// full month label as printed, possibly split ("Jan/Feb")
	Month string
	// "28-29", "30-1", or a single day
	Dates string
	// "FOMC Meeting" or "Notation Vote"
	Type string

	// links collected from the calendar page itself
	PressConferenceURL string
	StatementURL       string
	MinutesURL         string
	OtherMaterialURLs  []string

	// set when the calendar carried only unlabeled links; usually a
	// future meeting whose materials have not been released yet
	Unconfirmed bool

	// canonical links harvested from the meeting's own page
	PageURL          string
	StatementHTMLURL string
	MinutesHTMLURL   string
	TranscriptPDFURL string

	// used only for recency filtering
	ReleaseDate *time.Time
}

var monthAbbrev = map[string]string{
	"january": "jan", "february": "feb", "march": "mar", "april": "apr",
	"may": "may", "june": "jun", "july": "jul", "august": "aug",
	"september": "sep", "october": "oct", "november": "nov", "december": "dec",
}

// ID is the canonical meeting identifier used in filenames, e.g.
// "2025_jan_28-29". Split months key on the first month: a meeting
// labeled "Apr/May 30-1" becomes "2024_apr_30-1".
func (m *Meeting) ID() string {
	month := m.Month
	if split, _, found := strings.Cut(month, "/"); found {
		month = split
	}
	abbrev, ok := monthAbbrev[strings.ToLower(month)]
	if !ok {
		abbrev = strings.ToLower(month)
		if len(abbrev) > 3 {
			abbrev = abbrev[:3]
		}
	}
	return fmt.Sprintf("%d_%s_%s", m.Year, abbrev, m.Dates)
}

// FinalMinutesURL prefers the minutes link harvested from the meeting
// page over the calendar-page link, which may point at a PDF.
func (m *Meeting) FinalMinutesURL() string {
	if m.MinutesHTMLURL != "" {
		return m.MinutesHTMLURL
	}
	if strings.Contains(strings.ToLower(m.MinutesURL), ".htm") {
		return m.MinutesURL
	}
	return ""
}

// Documents lists the meeting's materials with the best URL known for
// each type.
func (m *Meeting) Documents() []Document {
	var documents []Document
	if url := firstOf(m.StatementHTMLURL, m.StatementURL); url != "" {
		documents = append(documents, Document{Type: DocStatement, URL: url})
	}
	if url := firstOf(m.MinutesHTMLURL, m.MinutesURL); url != "" {
		documents = append(documents, Document{Type: DocMinutes, URL: url})
	}
	if m.TranscriptPDFURL != "" {
		documents = append(documents, Document{Type: DocTranscript, URL: m.TranscriptPDFURL})
	}
	for _, url := range m.OtherMaterialURLs {
		documents = append(documents, Document{Type: DocOther, URL: url})
	}
	return documents
}

func firstOf(urls ...string) string {
	for _, url := range urls {
		if url != "" {
			return url
		}
	}
	return ""
}
