// Package fomc orchestrates the meeting-document pipeline: parse the
// calendar, enrich each meeting from its own page, filter to the most
// recent release months, download the materials, and write a summary
// CSV.
package fomc

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"

	fomcscraper "econdata-backend/lib/scrapers/fomc"
	"econdata-backend/lib/timezone"
	"econdata-backend/services/export"
)

var tracer = otel.Tracer("services/fomc")

type Config struct {
	Scraper     fomcscraper.Config `json:"scraper"`
	OutputDir   string             `json:"output_dir"`
	DownloadDir string             `json:"download_dir"`
	SpeechesDir string             `json:"speeches_dir"`
}

func DefaultConfig() Config {
	return Config{
		Scraper:     fomcscraper.DefaultConfig(),
		OutputDir:   "output/fomc",
		DownloadDir: "output/fomc_press_conferences",
		SpeechesDir: "output/speeches_transcripts",
	}
}

type Service struct {
	client *fomcscraper.Client
	config Config
}

func NewService(config Config) (Service, error) {
	client, err := fomcscraper.NewClient(config.Scraper)
	if err != nil {
		return Service{}, err
	}
	return Service{client: client, config: config}, nil
}

func (s Service) Close() error {
	return s.client.Close()
}

type Result struct {
	Meetings []*fomcscraper.Meeting
	// meetings excluded from the recency filter for lack of a
	// release date, reported rather than dropped
	Dateless []*fomcscraper.Meeting
	Path     string
	Stats    fomcscraper.DownloadStats
}

func (s Service) Run(ctx context.Context) (Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	meetings, err := s.client.FetchMeetings(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch meetings: %w", err)
	}
	s.client.Enrich(ctx, meetings)

	recent, dateless := fomcscraper.FilterRecent(meetings, s.config.Scraper.RecentMonths)
	for _, meeting := range dateless {
		slog.Warn("meeting has no release date, excluded from recency filter",
			"meeting", meeting.ID())
	}
	for _, meeting := range recent {
		if meeting.Unconfirmed {
			slog.Warn("meeting carried only unlabeled links, treating as unconfirmed",
				"meeting", meeting.ID())
		}
	}

	stats, err := s.client.DownloadDocuments(ctx, recent, s.config.DownloadDir)
	if err != nil {
		return Result{}, fmt.Errorf("download documents: %w", err)
	}
	slog.Info("fomc documents downloaded",
		"downloaded", stats.Downloaded, "skipped", stats.Skipped, "failed", stats.Failed)

	path := export.MeetingsPath(s.config.OutputDir, timezone.Now())
	if err := export.WriteMeetings(path, recent); err != nil {
		return Result{}, fmt.Errorf("write meetings csv: %w", err)
	}
	return Result{Meetings: recent, Dateless: dateless, Path: path, Stats: stats}, nil
}

// Speeches scrapes the speeches index and downloads every HTML
// transcript not yet on disk.
func (s Service) Speeches(ctx context.Context) (fomcscraper.DownloadStats, error) {
	ctx, span := tracer.Start(ctx, "Speeches")
	defer span.End()

	speeches, err := s.client.FetchSpeeches(ctx)
	if err != nil {
		return fomcscraper.DownloadStats{}, fmt.Errorf("fetch speeches: %w", err)
	}
	slog.Info("speeches index parsed", "transcripts", len(speeches))

	stats, err := s.client.DownloadSpeeches(ctx, speeches, s.config.SpeechesDir)
	if err != nil {
		return stats, fmt.Errorf("download speeches: %w", err)
	}
	return stats, nil
}
