// Package calendar orchestrates one economic-calendar scrape: resolve
// impact levels, run an extraction strategy, window-filter, dedupe,
// and write the CSV contract.
package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	"econdata-backend/lib/dedupe"
	"econdata-backend/lib/scrapers/tecalendar"
	"econdata-backend/lib/timezone"
	"econdata-backend/services/export"
)

var tracer = otel.Tracer("services/calendar")

type Config struct {
	Scraper   tecalendar.Config `json:"scraper"`
	OutputDir string            `json:"output_dir"`
	// display-timezone days on either side of today
	WindowDays int `json:"window_days"`
}

func DefaultConfig() Config {
	return Config{
		Scraper:    tecalendar.DefaultConfig(),
		OutputDir:  "output/calendar",
		WindowDays: 7,
	}
}

type Service struct {
	client *tecalendar.Client
	config Config
}

func NewService(config Config) (Service, error) {
	if config.WindowDays <= 0 {
		config.WindowDays = 7
	}
	client, err := tecalendar.NewClient(config.Scraper)
	if err != nil {
		return Service{}, err
	}
	return Service{client: client, config: config}, nil
}

type Result struct {
	Events []tecalendar.Event
	Path   string
	Start  time.Time
	End    time.Time
}

// RunHTTP executes the cookie-filtered strategy end to end.
func (s Service) RunHTTP(ctx context.Context) (Result, error) {
	ctx, span := tracer.Start(ctx, "RunHTTP")
	defer span.End()

	start, end := timezone.CurrentWindow(timezone.Now(), s.config.WindowDays)
	importance, err := s.client.ResolveImportance(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("resolve importance: %w", err)
	}

	events, err := s.client.ScrapeHTTP(ctx, tecalendar.Filters{Start: start, End: end}, importance)
	if err != nil {
		return Result{}, err
	}
	return s.finish(events, start, end)
}

// RunDOM executes the browser-session fallback strategy. The session
// is sequential by construction; only the importance resolution rides
// on plain HTTP.
func (s Service) RunDOM(ctx context.Context, session tecalendar.PageSession) (Result, error) {
	ctx, span := tracer.Start(ctx, "RunDOM")
	defer span.End()

	start, end := timezone.CurrentWindow(timezone.Now(), s.config.WindowDays)
	importance, err := s.client.ResolveImportance(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("resolve importance: %w", err)
	}

	events, err := s.client.ScrapeDOM(ctx, session, tecalendar.Filters{Start: start, End: end}, importance)
	if err != nil {
		return Result{}, err
	}
	return s.finish(events, start, end)
}

func (s Service) finish(events []tecalendar.Event, start, end time.Time) (Result, error) {
	windowed := filterWindow(events, start, end)
	deduped := dedupe.ByKey(windowed, tecalendar.Event.Key)
	slog.Info("calendar scrape finished",
		"scraped", len(events),
		"in_window", len(windowed),
		"after_dedupe", len(deduped))

	path := export.CalendarPath(s.config.OutputDir, start, end)
	if err := export.WriteCalendar(path, deduped); err != nil {
		return Result{}, fmt.Errorf("write calendar csv: %w", err)
	}
	return Result{Events: deduped, Path: path, Start: start, End: end}, nil
}

// filterWindow keeps events whose display-timezone instant falls in
// [start, end]. Events without a parsed time carry no instant to
// compare, so they pass through.
func filterWindow(events []tecalendar.Event, start, end time.Time) []tecalendar.Event {
	out := make([]tecalendar.Event, 0, len(events))
	for _, event := range events {
		if event.Display != nil {
			if event.Display.Before(start) || event.Display.After(end) {
				continue
			}
		}
		out = append(out, event)
	}
	return out
}
