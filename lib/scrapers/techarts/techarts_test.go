package techarts

import (
	"bytes"
	"compress/flate"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// encodePayload builds a wire payload the way the datasource does:
// JSON, deflate, XOR with the repeating key, base64.
func encodePayload(t *testing.T, key string, payload any) string {
	t.Helper()

	plain, err := json.Marshal(payload)
	require.NoError(t, err)

	var compressed bytes.Buffer
	writer, err := flate.NewWriter(&compressed, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = writer.Write(plain)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	keyBytes := []byte(key)
	xored := compressed.Bytes()
	for i := range xored {
		xored[i] ^= keyBytes[i%len(keyBytes)]
	}
	return base64.StdEncoding.EncodeToString(xored)
}

func seriesPayload(unit, frequency string, data [][]any) any {
	return []map[string]any{{
		"series": []map[string]any{{
			"serie": map[string]any{
				"unit":      unit,
				"frequency": frequency,
				"data":      data,
			},
		}},
	}}
}

func testServer(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := DefaultConfig()
	config.DatasourceBase = server.URL
	config.Workers = 2
	client, err := NewClient(config)
	require.NoError(t, err)
	return client
}

func TestFetchSerieDecodesPayload(t *testing.T) {
	key := DefaultConfig().ObfuscationKey
	body := encodePayload(t, key, seriesPayload("percent", "Monthly", [][]any{
		{3.1, nil, nil, "2024-11-30"},
		{3.3, nil, nil, "2024-12-31"},
	}))

	var gotPath, gotN, gotKey string
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotN = r.URL.Query().Get("n")
		gotKey = r.URL.Query().Get("key")
		fmt.Fprint(w, body)
	})

	serie, status, note := client.FetchSerie(context.Background(), "CPI YoY")
	require.Equal(t, "/economics/cpi%20yoy", gotPath)
	require.Equal(t, "12", gotN)
	require.Equal(t, "20240229:nazare", gotKey)
	require.Equal(t, StatusOK, status)
	require.Empty(t, note)
	require.Equal(t, "percent", serie.Unit)
	require.Len(t, serie.Data, 2)
}

func TestSeriesURLKeepsColon(t *testing.T) {
	config := DefaultConfig()
	client, err := NewClient(config)
	require.NoError(t, err)
	require.Equal(t,
		"https://d3ii0wo49og5mi.cloudfront.net/economics/usgg10yr:ind",
		client.seriesURL("USGG10YR:IND"))
}

func TestObserveMonthlySeries(t *testing.T) {
	key := DefaultConfig().ObfuscationKey
	body := encodePayload(t, key, seriesPayload("percent", "Monthly", [][]any{
		{3.1, nil, nil, "2024-11-30"},
		{3.3, nil, nil, "2024-12-31"},
	}))
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	})

	got := client.observe(context.Background(), Target{
		Bucket: "CPI", Name: "CPI YoY", Symbol: "cpi yoy", SourceURL: "https://example.test/cpi",
	})
	require.Equal(t, StatusOK, got.Status)
	require.Equal(t, "3.3", got.LatestValue)
	require.Equal(t, "percent", got.Unit)
	require.Equal(t, "2024-12-31", got.ObsDate)
	// monthly series never get a day change
	require.Empty(t, got.DayChange)
	require.Contains(t, got.Note, "points=2")
}

func TestObserveDailySeriesComputesDayChange(t *testing.T) {
	key := DefaultConfig().ObfuscationKey
	body := encodePayload(t, key, seriesPayload("percent", "Daily", [][]any{
		{1.5, nil, nil, "2025-01-14"},
		{4.0, nil, nil, "2025-01-15"},
	}))
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	})

	got := client.observe(context.Background(), Target{Bucket: "UST", Name: "US 10Y Yield", Symbol: "usgg10yr:ind"})
	require.Equal(t, "4", got.LatestValue)
	require.Equal(t, "2.5", got.DayChange)
}

func TestObserveFailureStillEmitsRow(t *testing.T) {
	cases := []struct {
		name   string
		handle http.HandlerFunc
		status Status
	}{
		{
			name: "request error",
			handle: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
			status: StatusRequestError,
		},
		{
			name: "decode error",
			handle: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "not base64 at all!!!")
			},
			status: StatusDecodeError,
		},
		{
			name: "empty series",
			handle: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, encodePayload(t, DefaultConfig().ObfuscationKey,
					[]map[string]any{{"series": []map[string]any{}}}))
			},
			status: StatusEmptySeries,
		},
		{
			name: "missing serie",
			handle: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, encodePayload(t, DefaultConfig().ObfuscationKey,
					[]map[string]any{{"series": []map[string]any{{"other": 1}}}}))
			},
			status: StatusMissingSerie,
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			client := testServer(t, test.handle)
			got := client.observe(context.Background(), Target{Bucket: "CPI", Name: "CPI YoY", Symbol: "cpi yoy"})
			require.Equal(t, test.status, got.Status)
			require.Empty(t, got.LatestValue)
			require.Equal(t, "CPI", got.Bucket)
			require.Contains(t, got.Note, "symbol=cpi yoy")
		})
	}
}

func TestFormatValue(t *testing.T) {
	require.Equal(t, "3.3", formatValue(3.3))
	require.Equal(t, "4", formatValue(4.0))
	require.Equal(t, "2.5", formatValue(2.5))
	require.Equal(t, "0.123457", formatValue(0.123456789))
	require.Equal(t, "-1.25", formatValue(-1.25))
}

func TestCollectPreservesTargetOrder(t *testing.T) {
	key := DefaultConfig().ObfuscationKey
	body := encodePayload(t, key, seriesPayload("percent", "Monthly", [][]any{
		{1.0, nil, nil, "2024-12-31"},
	}))
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	})

	targets := []Target{
		{Bucket: "CPI", Name: "first", Symbol: "a"},
		{Bucket: "CPI", Name: "second", Symbol: "b"},
		{Bucket: "ISM", Name: "third", Symbol: "c"},
	}
	got := client.Collect(context.Background(), targets)
	require.Len(t, got, 3)
	for i, target := range targets {
		require.Equal(t, target.Name, got[i].Name)
		require.Equal(t, StatusOK, got[i].Status)
	}
}

func TestDecodePayloadRejectsWrongKey(t *testing.T) {
	body := encodePayload(t, "some-other-key", seriesPayload("percent", "Monthly", nil))
	_, err := decodePayload([]byte(body), []byte(DefaultConfig().ObfuscationKey))
	require.Error(t, err)
}
