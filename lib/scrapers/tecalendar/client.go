// Package tecalendar scrapes the TradingEconomics economic calendar.
// Two interchangeable strategies are provided: a cookie-filtered raw
// HTTP fetch (the default) and a browser-session fallback for when the
// cookie contract drifts. Both feed the same row normalization so
// their outputs are directly comparable.
package tecalendar

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"

	"econdata-backend/lib/telemetry"
)

var tracer = otel.Tracer("econdata.scrapers.tecalendar")

const (
	cookieCountry     = "calendar-countries"
	cookieImportance  = "calendar-importance"
	cookieRange       = "calendar-range"
	cookieCustomRange = "cal-custom-range"

	// "0" tells the site to honor cal-custom-range instead of a preset
	rangeCustom = "0"

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/123.0.0.0 Safari/537.36"
)

type Config struct {
	CalendarURL  string `json:"calendar_url"`
	CookieDomain string `json:"cookie_domain"`
	// lowercase ISO token the site's country cookie expects, "usa"
	// for United States
	CountryToken string `json:"country_token"`
	CountryLabel string `json:"country_label"`
	SiteTimezone string `json:"site_timezone"`

	RowSelector   string `json:"row_selector"`
	TimeSelector  string `json:"time_selector"`
	TitleSelector string `json:"title_selector"`
	LinkSelector  string `json:"link_selector"`

	UserAgent string `json:"user_agent"`
}

func DefaultConfig() Config {
	return Config{
		CalendarURL:   "https://tradingeconomics.com/calendar",
		CookieDomain:  "tradingeconomics.com",
		CountryToken:  "usa",
		CountryLabel:  "United States",
		SiteTimezone:  "UTC",
		RowSelector:   "#calendar tr[data-country]",
		TimeSelector:  "td:nth-of-type(1) span",
		TitleSelector: "td:nth-of-type(3) a.calendar-event",
		LinkSelector:  "td:nth-of-type(3) a.calendar-event",
		UserAgent:     defaultUserAgent,
	}
}

// Filters describes one filtered view of the calendar.
type Filters struct {
	Start   time.Time
	End     time.Time
	Impacts []int
}

func (f Filters) importanceValue() string {
	if len(f.Impacts) == 0 {
		return "1,2,3"
	}
	levels := make([]string, 0, len(f.Impacts))
	for _, impact := range f.Impacts {
		levels = append(levels, strconv.Itoa(impact))
	}
	return strings.Join(levels, ",")
}

func (f Filters) customRangeValue() string {
	return f.Start.Format("2006-01-02") + "|" + f.End.Format("2006-01-02")
}

type Client struct {
	http   *resty.Client
	config Config
	base   *url.URL
	siteTZ *time.Location
}

func NewClient(config Config) (*Client, error) {
	if config.RowSelector == "" || config.TimeSelector == "" || config.TitleSelector == "" {
		return nil, fmt.Errorf("calendar selectors are not fully configured")
	}
	base, err := url.Parse(config.CalendarURL)
	if err != nil {
		return nil, fmt.Errorf("parse calendar url: %w", err)
	}
	siteTZ, err := time.LoadLocation(config.SiteTimezone)
	if err != nil {
		return nil, fmt.Errorf("load site timezone: %w", err)
	}

	client := resty.New().
		SetHeader("User-Agent", config.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.9").
		SetHeader("Referer", config.CalendarURL).
		SetTimeout(time.Second * 30).
		SetRetryCount(2)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	telemetry.InstrumentResty(client, "econdata.scrapers.tecalendar")

	return &Client{
		http:   client,
		config: config,
		base:   base,
		siteTZ: siteTZ,
	}, nil
}

func (c *Client) filterCookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:   name,
		Value:  value,
		Domain: c.config.CookieDomain,
		Path:   "/",
	}
}

// fetchFiltered GETs the calendar with the given filter cookies and
// returns the parsed document. The country cookie is always sent.
func (c *Client) fetchFiltered(ctx context.Context, cookies map[string]string) (*goquery.Document, error) {
	req := c.http.R().
		SetContext(ctx).
		SetCookie(c.filterCookie(cookieCountry, c.config.CountryToken))
	for name, value := range cookies {
		req.SetCookie(c.filterCookie(name, value))
	}

	res, err := req.Get(c.config.CalendarURL)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() >= 400 {
		return nil, fmt.Errorf("calendar fetch returned status %d", res.StatusCode())
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.String()))
	if err != nil {
		return nil, fmt.Errorf("parse calendar html: %w", err)
	}
	return doc, nil
}

// ScrapeHTTP is the cookie-filtered strategy. It fetches a single
// filtered page and maps its rows through the shared normalization.
func (c *Client) ScrapeHTTP(ctx context.Context, filters Filters, importance map[string]int) ([]Event, error) {
	ctx, span := tracer.Start(ctx, "ScrapeHTTP")
	defer span.End()

	doc, err := c.fetchFiltered(ctx, map[string]string{
		cookieImportance:  filters.importanceValue(),
		cookieRange:       rangeCustom,
		cookieCustomRange: filters.customRangeValue(),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch filtered calendar: %w", err)
	}
	return c.parseDocument(doc, importance), nil
}
