// Package fomc resolves FOMC meetings and their released materials
// from the Federal Reserve's calendar page. The page is unstructured
// markup with several layout generations, so parsing is a heuristic
// walk over a flattened, document-ordered block list rather than a
// strict grammar.
package fomc

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dgraph-io/badger/v4"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"

	"econdata-backend/lib/telemetry"
)

var tracer = otel.Tracer("econdata.scrapers.fomc")

type Config struct {
	BaseURL     string `json:"base_url"`
	CalendarURL string `json:"calendar_url"`
	SpeechesURL string `json:"speeches_url"`
	// badger directory for the page cache, empty for in-memory
	CacheDir     string `json:"cache_dir"`
	CacheTTLHrs  int    `json:"cache_ttl_hrs"`
	Workers      int    `json:"workers"`
	RecentMonths int    `json:"recent_months"`
	UserAgent    string `json:"user_agent"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:      "https://www.federalreserve.gov",
		CalendarURL:  "https://www.federalreserve.gov/monetarypolicy/fomccalendars.htm",
		SpeechesURL:  "https://www.federalreserve.gov/newsevents/speeches.htm",
		CacheTTLHrs:  6,
		Workers:      4,
		RecentMonths: 10,
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
			"AppleWebKit/537.36 (KHTML, like Gecko) " +
			"Chrome/123.0.0.0 Safari/537.36",
	}
}

type Client struct {
	http   *resty.Client
	config Config
	base   *url.URL
	cache  pageCache
}

func NewClient(config Config) (*Client, error) {
	base, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if config.Workers <= 0 {
		config.Workers = 4
	}
	if config.RecentMonths <= 0 {
		config.RecentMonths = 10
	}

	options := badger.DefaultOptions(config.CacheDir).WithLogger(nil)
	if config.CacheDir == "" {
		options = options.WithInMemory(true)
	}
	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open page cache: %w", err)
	}

	client := resty.New().
		SetHeader("User-Agent", config.UserAgent).
		SetTimeout(time.Second * 30).
		SetRetryCount(2)
	telemetry.InstrumentResty(client, "econdata.scrapers.fomc")

	return &Client{
		http:   client,
		config: config,
		base:   base,
		cache: pageCache{
			db:       db,
			baseUrl:  base,
			lifetime: time.Duration(config.CacheTTLHrs) * time.Hour,
		},
	}, nil
}

func (c *Client) Close() error {
	return c.cache.db.Close()
}

// fetchPage returns a page's HTML, serving repeat visits from the
// badger cache. Enrichment re-visits the same meeting pages across
// runs, so this saves most of the traffic.
func (c *Client) fetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	cached, err := c.cache.get(ctx, pageURL)
	if err == nil {
		return cached.Contents, nil
	}
	if err != errPageNotFound {
		return nil, err
	}

	res, err := c.http.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() >= 400 {
		return nil, fmt.Errorf("fetch %s: status %d", pageURL, res.StatusCode())
	}

	contents := res.Body()
	if err := c.cache.set(ctx, pageURL, page{
		Contents:  contents,
		ExpiresAt: time.Now().Add(c.cache.lifetime).Unix(),
	}); err != nil {
		return nil, err
	}
	return contents, nil
}

func (c *Client) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	contents, err := c.fetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(contents)))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}
