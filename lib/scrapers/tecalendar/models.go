package tecalendar

import (
	"fmt"
	"hash/fnv"
	"time"
)

// Event is the normalized representation of one calendar row. Both
// extraction strategies produce this type through the same
// normalization step so their outputs are directly comparable.
type Event struct {
	EventID  string
	Title    string
	Category string
	Country  string
	// 1 (low) to 3 (high), 0 when unknown
	Impact int
	// nil when the time text is unparseable or denotes an
	// all-day/tentative event
	UTC *time.Time
	// always derived from UTC, never parsed independently
	Display     *time.Time
	RawTimeText string
	SourceURL   string

	Actual    string
	Previous  string
	Consensus string
	Forecast  string
}

// Key is the composite dedup key: local timestamp + title + source URL.
func (e Event) Key() string {
	ts := ""
	if e.Display != nil {
		ts = e.Display.Format(time.RFC3339)
	}
	return ts + "|" + e.Title + "|" + e.SourceURL
}

// DeriveEventID produces a stable identifier for rows the source ships
// without a data-id, hashed from the calendar date and title.
func DeriveEventID(date *time.Time, title string) string {
	h := fnv.New64a()
	if date != nil {
		h.Write([]byte(date.Format("2006-01-02")))
	}
	h.Write([]byte{'|'})
	h.Write([]byte(title))
	return fmt.Sprintf("gen-%016x", h.Sum64())
}
