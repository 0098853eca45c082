// Package techarts replays the chart-data requests TradingEconomics
// indicator pages issue to their CDN datasource. The payload comes
// back base64-encoded, XOR-obfuscated and deflate-compressed; this
// package undoes that and normalizes the series into observations.
package techarts

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"

	"econdata-backend/lib/telemetry"
)

var tracer = otel.Tracer("econdata.scrapers.techarts")

type Config struct {
	DatasourceBase string `json:"datasource_base"`
	Token          string `json:"token"`
	ObfuscationKey string `json:"obfuscation_key"`
	// number of points requested per series
	Lookback  int    `json:"lookback"`
	Workers   int    `json:"workers"`
	UserAgent string `json:"user_agent"`
}

func DefaultConfig() Config {
	return Config{
		DatasourceBase: "https://d3ii0wo49og5mi.cloudfront.net",
		Token:          "20240229:nazare",
		ObfuscationKey: "tradingeconomics-charts-core-api-key",
		Lookback:       12,
		Workers:        4,
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
			"AppleWebKit/537.36 (KHTML, like Gecko) " +
			"Chrome/123.0.0.0 Safari/537.36",
	}
}

type Client struct {
	http   *resty.Client
	config Config
	key    []byte
}

func NewClient(config Config) (*Client, error) {
	if config.ObfuscationKey == "" {
		return nil, fmt.Errorf("obfuscation key is not configured")
	}
	if config.Lookback <= 0 {
		config.Lookback = 12
	}
	if config.Workers <= 0 {
		config.Workers = 4
	}

	client := resty.New().
		SetHeader("User-Agent", config.UserAgent).
		SetTimeout(time.Second * 30).
		SetRetryCount(2)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	telemetry.InstrumentResty(client, "econdata.scrapers.techarts")

	return &Client{
		http:   client,
		config: config,
		key:    []byte(config.ObfuscationKey),
	}, nil
}

// seriesURL builds the chart endpoint URL. Symbols are lowercased and
// path-escaped; the ":" in ticker-style symbols stays literal.
func (c *Client) seriesURL(symbol string) string {
	return fmt.Sprintf("%s/economics/%s",
		strings.TrimRight(c.config.DatasourceBase, "/"),
		url.PathEscape(strings.ToLower(symbol)))
}

// FetchSerie pulls and decodes one symbol's series. A failure at any
// stage comes back as a non-OK status with a short note instead of an
// error: callers always emit a row.
func (c *Client) FetchSerie(ctx context.Context, symbol string) (*Serie, Status, string) {
	ctx, span := tracer.Start(ctx, "FetchSerie")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("n", strconv.Itoa(c.config.Lookback)).
		SetQueryParam("key", c.config.Token).
		Get(c.seriesURL(symbol))
	if err != nil {
		return nil, StatusRequestError, err.Error()
	}
	if res.StatusCode() >= 400 {
		return nil, StatusRequestError, fmt.Sprintf("status %d", res.StatusCode())
	}

	entries, err := decodePayload(res.Body(), c.key)
	if err != nil {
		return nil, StatusDecodeError, err.Error()
	}

	serie, status := extractSerie(entries)
	if status != StatusOK {
		return nil, status, ""
	}
	return serie, StatusOK, ""
}
