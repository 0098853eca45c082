package fomc

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const pressConferencePage = `<html><body>
<p>FOMC Press Conference January 29, 2025</p>
<p>Statement: <a href="/newsevents/pressreleases/monetary20250129a.htm">HTML</a>
   <a href="/newsevents/pressreleases/monetary20250129a1.pdf">PDF</a>
   (Released January 29, 2025 at 2:00 p.m.)</p>
<p>Press Conference <a href="/mediacenter/files/FOMCpresconf20250129.pdf">Transcript</a></p>
<p>Minutes: <a href="/monetarypolicy/fomcminutes20250129.htm">HTML</a></p>
</body></html>`

func enrichTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := DefaultConfig()
	config.BaseURL = server.URL
	config.CalendarURL = server.URL + "/monetarypolicy/fomccalendars.htm"
	config.SpeechesURL = server.URL + "/newsevents/speeches.htm"
	client, err := NewClient(config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestEnrichFromPressConference(t *testing.T) {
	client := enrichTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, pressConferencePage)
	})

	meeting := &Meeting{
		Year: 2025, Month: "January", Dates: "28-29",
		PressConferenceURL: client.config.BaseURL + "/monetarypolicy/fomcpresconf20250129.htm",
	}
	client.Enrich(context.Background(), []*Meeting{meeting})

	require.Equal(t, meeting.PressConferenceURL, meeting.PageURL)
	require.Equal(t,
		client.config.BaseURL+"/newsevents/pressreleases/monetary20250129a.htm",
		meeting.StatementHTMLURL)
	require.Equal(t,
		client.config.BaseURL+"/mediacenter/files/FOMCpresconf20250129.pdf",
		meeting.TranscriptPDFURL)
	require.Equal(t,
		client.config.BaseURL+"/monetarypolicy/fomcminutes20250129.htm",
		meeting.MinutesHTMLURL)
	require.NotNil(t, meeting.ReleaseDate)
	require.Equal(t, time.Date(2025, time.January, 29, 0, 0, 0, 0, time.UTC), *meeting.ReleaseDate)
}

func TestEnrichFallbackHarvestsPDFsAndReleaseDate(t *testing.T) {
	page := `<html><body>
	<h3>Federal Reserve issues FOMC statement</h3>
	<p>For release November 7, 2024</p>
	<p><a href="/newsevents/pressreleases/monetary20241107a1.pdf">Implementation Note (PDF)</a></p>
	</body></html>`

	client := enrichTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	})

	meeting := &Meeting{
		Year: 2024, Month: "November", Dates: "6-7",
		StatementURL: client.config.BaseURL + "/newsevents/pressreleases/monetary20241107a.htm",
	}
	client.Enrich(context.Background(), []*Meeting{meeting})

	require.Equal(t, meeting.StatementURL, meeting.PageURL)
	require.Contains(t, meeting.OtherMaterialURLs,
		client.config.BaseURL+"/newsevents/pressreleases/monetary20241107a1.pdf")
	require.NotNil(t, meeting.ReleaseDate)
	require.Equal(t, time.Date(2024, time.November, 7, 0, 0, 0, 0, time.UTC), *meeting.ReleaseDate)
}

func TestEnrichFailureIsIsolated(t *testing.T) {
	client := enrichTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad.htm" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, pressConferencePage)
	})

	bad := &Meeting{Year: 2025, Month: "March", Dates: "18-19",
		PressConferenceURL: client.config.BaseURL + "/bad.htm"}
	good := &Meeting{Year: 2025, Month: "January", Dates: "28-29",
		PressConferenceURL: client.config.BaseURL + "/good.htm"}

	client.Enrich(context.Background(), []*Meeting{bad, good})
	require.Nil(t, bad.ReleaseDate)
	require.NotNil(t, good.ReleaseDate)
}

func TestFetchPageUsesCache(t *testing.T) {
	var hits atomic.Int64
	client := enrichTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, "<html><body>hello</body></html>")
	})

	ctx := context.Background()
	url := client.config.BaseURL + "/monetarypolicy/page.htm"

	first, err := client.fetchPage(ctx, url)
	require.NoError(t, err)
	second, err := client.fetchPage(ctx, url)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, int64(1), hits.Load())
}

func TestPageCacheExpiry(t *testing.T) {
	client := enrichTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	ctx := context.Background()
	err := client.cache.set(ctx, "/stale.htm", page{
		Contents:  []byte("old"),
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	})
	require.NoError(t, err)

	_, err = client.cache.get(ctx, "/stale.htm")
	require.Equal(t, errPageNotFound, err)
}
