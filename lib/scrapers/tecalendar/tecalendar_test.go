package tecalendar

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, calendarURL string) *Client {
	config := DefaultConfig()
	config.CalendarURL = calendarURL
	client, err := NewClient(config)
	require.NoError(t, err)
	return client
}

const calendarPage = `<html><body><table id="calendar">
<thead><tr><th>Header</th></tr></thead>
<tr data-country="united states" data-id="100" data-category="inflation" data-url="/united-states/inflation-cpi">
  <td class="calendar-date-1 2025-01-15"><span>8:30 AM</span></td>
  <td></td>
  <td><a class="calendar-event" href="/united-states/inflation-cpi">CPI YoY</a></td>
  <td id="actual">2.9%</td>
  <td id="previous">2.7%</td>
  <td id="consensus">2.8%</td>
  <td id="forecast">2.9%</td>
</tr>
<tr data-country="united states" data-id="101" data-url="/united-states/holidays">
  <td class="2025-01-20"><span>All Day</span></td>
  <td></td>
  <td><a class="calendar-event" href="/united-states/holidays">Martin Luther King Jr. Day</a></td>
</tr>
<tr data-country="united states">
  <td class="2025-01-21"><span>10:00 AM</span></td>
  <td></td>
  <td><a class="calendar-event" href="/united-states/existing-home-sales">Existing Home Sales</a></td>
</tr>
</table></body></html>`

func serveCalendar(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestScrapeHTTP(t *testing.T) {
	var gotCountry, gotRange string
	server := serveCalendar(t, func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("calendar-countries"); err == nil {
			gotCountry = c.Value
		}
		if c, err := r.Cookie("cal-custom-range"); err == nil {
			gotRange = c.Value
		}
		fmt.Fprint(w, calendarPage)
	})

	client := testClient(t, server.URL)
	filters := Filters{
		Start: time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.January, 24, 0, 0, 0, 0, time.UTC),
	}
	events, err := client.ScrapeHTTP(context.Background(), filters, map[string]int{"100": 3})
	require.NoError(t, err)
	require.Equal(t, "usa", gotCountry)
	require.Equal(t, "2025-01-10|2025-01-24", gotRange)
	require.Len(t, events, 3)

	cpi := events[0]
	require.Equal(t, "100", cpi.EventID)
	require.Equal(t, "CPI YoY", cpi.Title)
	require.Equal(t, "United States", cpi.Country)
	require.Equal(t, "inflation", cpi.Category)
	require.Equal(t, 3, cpi.Impact)
	require.Equal(t, "2.9%", cpi.Actual)
	require.Equal(t, "2.7%", cpi.Previous)
	require.Equal(t, server.URL+"/united-states/inflation-cpi", cpi.SourceURL)
	require.NotNil(t, cpi.UTC)
	require.Equal(t, time.Date(2025, time.January, 15, 8, 30, 0, 0, time.UTC), *cpi.UTC)
	require.NotNil(t, cpi.Display)
	require.Equal(t, *cpi.UTC, cpi.Display.UTC())

	holiday := events[1]
	require.Equal(t, "All Day", holiday.RawTimeText)
	require.Nil(t, holiday.UTC)
	require.Nil(t, holiday.Display)

	// no data-id but a real title: id is derived, not dropped
	derived := events[2]
	require.Equal(t, "Existing Home Sales", derived.Title)
	require.NotEmpty(t, derived.EventID)
	require.Equal(t, 0, derived.Impact)
}

func TestScrapeHTTPFailsOnServerError(t *testing.T) {
	server := serveCalendar(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	client := testClient(t, server.URL)
	_, err := client.ScrapeHTTP(context.Background(), Filters{}, nil)
	require.Error(t, err)
}

func TestResolveImportanceHighestLevelWins(t *testing.T) {
	rowsByLevel := map[string][]string{
		"1": {"a", "b", "c"},
		"2": {"b", "c"},
		"3": {"c"},
	}
	server := serveCalendar(t, func(w http.ResponseWriter, r *http.Request) {
		level, err := r.Cookie("calendar-importance")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		fmt.Fprint(w, `<html><body><table id="calendar">`)
		for _, id := range rowsByLevel[level.Value] {
			fmt.Fprintf(w, `<tr data-country="united states" data-id=%q><td><span></span></td></tr>`, id)
		}
		fmt.Fprint(w, `</table></body></html>`)
	})

	client := testClient(t, server.URL)
	importance, err := client.ResolveImportance(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[string]int{"a": 1, "b": 2, "c": 3}, importance)
}

func TestNormalizeRowsCarriesDateForward(t *testing.T) {
	client := testClient(t, "https://example.test/calendar")
	events := client.normalizeRows([]RawRow{
		{EventID: "1", Title: "CPI YoY", TimeText: "8:30 AM", DateClasses: []string{"2025-01-15"}},
		// second row of the same day carries no date class
		{EventID: "2", Title: "Core CPI YoY", TimeText: "9:00 AM"},
	}, nil)
	require.Len(t, events, 2)
	require.NotNil(t, events[1].UTC)
	require.Equal(t, time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC), *events[1].UTC)
}

func TestNewClientRejectsMissingSelectors(t *testing.T) {
	config := DefaultConfig()
	config.RowSelector = ""
	_, err := NewClient(config)
	require.Error(t, err)
}

func TestDeriveEventIDStable(t *testing.T) {
	date := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	first := DeriveEventID(&date, "CPI YoY")
	second := DeriveEventID(&date, "CPI YoY")
	require.Equal(t, first, second)
	require.NotEqual(t, first, DeriveEventID(&date, "Core CPI YoY"))
}

type cannedSession struct {
	rows        []RawRow
	navigateErr error
	navigated   string
	applied     *Filters
}

func (s *cannedSession) Navigate(ctx context.Context, url string) error {
	s.navigated = url
	return s.navigateErr
}

func (s *cannedSession) ApplyFilters(ctx context.Context, country string, filters Filters) error {
	s.applied = &filters
	return nil
}

func (s *cannedSession) ExtractRows(ctx context.Context, config Config) ([]RawRow, error) {
	return s.rows, nil
}

func (s *cannedSession) Close() error { return nil }

func TestScrapeDOM(t *testing.T) {
	session := &cannedSession{rows: []RawRow{
		{
			EventID:     "100",
			Country:     "united states",
			Category:    "inflation",
			TimeText:    "8:30 AM",
			DateClasses: []string{"calendar-date-1", "2025-01-15"},
			Title:       "CPI YoY",
			Href:        "/united-states/inflation-cpi",
		},
		{Title: ""},
	}}

	client := testClient(t, "https://example.test/calendar")
	events, err := client.ScrapeDOM(context.Background(), session, Filters{}, map[string]int{"100": 2})
	require.NoError(t, err)
	require.Equal(t, "https://example.test/calendar", session.navigated)
	require.NotNil(t, session.applied)

	require.Len(t, events, 1)
	require.Equal(t, "CPI YoY", events[0].Title)
	require.Equal(t, 2, events[0].Impact)
	require.Equal(t, "https://example.test/united-states/inflation-cpi", events[0].SourceURL)
}

func TestScrapeDOMAbortsOnNavigationFailure(t *testing.T) {
	session := &cannedSession{navigateErr: fmt.Errorf("net::ERR_TIMED_OUT")}
	client := testClient(t, "https://example.test/calendar")
	_, err := client.ScrapeDOM(context.Background(), session, Filters{}, nil)
	require.Error(t, err)
}

func TestScrapeDOMFailsOnEmptySelection(t *testing.T) {
	client := testClient(t, "https://example.test/calendar")
	_, err := client.ScrapeDOM(context.Background(), &cannedSession{}, Filters{}, nil)
	require.Error(t, err)
}

func TestEventKeyUsesDisplayTime(t *testing.T) {
	utc := time.Date(2025, time.January, 15, 8, 30, 0, 0, time.UTC)
	event := Event{Title: "CPI YoY", SourceURL: "/cpi", UTC: &utc}
	require.Equal(t, "|CPI YoY|/cpi", event.Key())

	display := utc.Add(time.Hour * 9)
	event.Display = &display
	require.Contains(t, event.Key(), "CPI YoY")
	require.NotEqual(t, "|CPI YoY|/cpi", event.Key())
}
