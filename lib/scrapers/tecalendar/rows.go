package tecalendar

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"econdata-backend/lib/htmlutil"
	"econdata-backend/lib/textutil"
	"econdata-backend/lib/timeparse"
	"econdata-backend/lib/timezone"
)

// RawRow carries the fields read off one calendar <tr> before
// normalization. Both strategies produce this shape: the browser
// session via an in-page extraction script, the HTTP strategy via
// goquery selection below.
type RawRow struct {
	EventID     string   `json:"eventId"`
	Country     string   `json:"country"`
	Category    string   `json:"category"`
	EventSlug   string   `json:"eventSlug"`
	TimeText    string   `json:"timeText"`
	DateClasses []string `json:"dateClasses"`
	Title       string   `json:"title"`
	Href        string   `json:"href"`
	Actual      string   `json:"actual"`
	Previous    string   `json:"previous"`
	Consensus   string   `json:"consensus"`
	Forecast    string   `json:"forecast"`
}

// normalizeRows maps raw rows to events. Rows without an event id are
// section headers or filler and are dropped, except that a row with a
// real title gets a derived id instead of being lost. The site only
// stamps the date on the first row of each day, so the last seen date
// carries forward.
func (c *Client) normalizeRows(raws []RawRow, importance map[string]int) []Event {
	events := make([]Event, 0, len(raws))
	var lastDate *time.Time
	for _, raw := range raws {
		date := timeparse.ParseDate(timeparse.ExtractDateFromClasses(raw.DateClasses))
		if date == nil {
			date = lastDate
		} else {
			lastDate = date
		}

		event, ok := c.normalizeRow(raw, date, importance)
		if !ok {
			continue
		}
		events = append(events, event)
	}
	return events
}

func (c *Client) normalizeRow(raw RawRow, date *time.Time, importance map[string]int) (Event, bool) {
	title := textutil.CleanText(raw.Title)
	if raw.EventID == "" && title == "" {
		return Event{}, false
	}

	timeText := textutil.CleanText(raw.TimeText)
	utc := timeparse.Parse(timeText, date, c.siteTZ)

	eventID := raw.EventID
	if eventID == "" {
		eventID = DeriveEventID(date, title)
	}

	href := raw.Href
	if href == "" {
		href = raw.EventSlug
	}

	return Event{
		EventID:     eventID,
		Title:       title,
		Category:    textutil.CleanText(raw.Category),
		Country:     textutil.TitleCase(raw.Country),
		Impact:      importance[eventID],
		UTC:         utc,
		Display:     timezone.ToDisplay(utc),
		RawTimeText: timeText,
		SourceURL:   htmlutil.ResolveHref(c.base, href),

		Actual:    textutil.CleanText(raw.Actual),
		Previous:  textutil.CleanText(raw.Previous),
		Consensus: textutil.CleanText(raw.Consensus),
		Forecast:  textutil.CleanText(raw.Forecast),
	}, true
}

// parseDocument reads calendar rows out of a fetched HTML document and
// normalizes them. Extraction mirrors the browser-session script
// field for field.
func (c *Client) parseDocument(doc *goquery.Document, importance map[string]int) []Event {
	var raws []RawRow
	doc.Find(c.config.RowSelector).Each(func(_ int, row *goquery.Selection) {
		timeSpan := row.Find(c.config.TimeSelector).First()
		dateCell := timeSpan.Closest("td")
		if dateCell.Length() == 0 {
			dateCell = row.Find("td").First()
		}

		titleEl := row.Find(c.config.TitleSelector).First()
		linkEl := titleEl
		if c.config.LinkSelector != "" {
			linkEl = row.Find(c.config.LinkSelector).First()
		}
		href, _ := linkEl.Attr("href")

		raws = append(raws, RawRow{
			EventID:     row.AttrOr("data-id", ""),
			Country:     row.AttrOr("data-country", ""),
			Category:    row.AttrOr("data-category", ""),
			EventSlug:   row.AttrOr("data-url", ""),
			TimeText:    timeSpan.Text(),
			DateClasses: strings.Fields(dateCell.AttrOr("class", "")),
			Title:       titleEl.Text(),
			Href:        href,
			Actual:      row.Find("#actual").First().Text(),
			Previous:    row.Find("#previous").First().Text(),
			Consensus:   row.Find("#consensus").First().Text(),
			Forecast:    row.Find("#forecast").First().Text(),
		})
	})
	return c.normalizeRows(raws, importance)
}
