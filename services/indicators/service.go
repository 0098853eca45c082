// Package indicators pulls the standing indicator watch list and
// writes the daily CSV.
package indicators

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"

	"econdata-backend/lib/scrapers/techarts"
	"econdata-backend/lib/timezone"
	"econdata-backend/services/export"
)

var tracer = otel.Tracer("services/indicators")

type Config struct {
	Scraper   techarts.Config `json:"scraper"`
	OutputDir string          `json:"output_dir"`
}

func DefaultConfig() Config {
	return Config{
		Scraper:   techarts.DefaultConfig(),
		OutputDir: "output/indicators",
	}
}

type Service struct {
	client  *techarts.Client
	config  Config
	targets []techarts.Target
}

func NewService(config Config) (Service, error) {
	client, err := techarts.NewClient(config.Scraper)
	if err != nil {
		return Service{}, err
	}
	return Service{
		client:  client,
		config:  config,
		targets: techarts.DefaultTargets(),
	}, nil
}

type Result struct {
	Observations []techarts.Observation
	Path         string
}

func (s Service) Run(ctx context.Context) (Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	observations := s.client.Collect(ctx, s.targets)

	failed := 0
	for _, observation := range observations {
		if observation.Status != techarts.StatusOK {
			failed++
		}
	}
	slog.Info("indicator collection finished",
		"targets", len(s.targets), "failed", failed)

	path := export.IndicatorsPath(s.config.OutputDir, timezone.Now())
	if err := export.WriteIndicators(path, observations); err != nil {
		return Result{}, fmt.Errorf("write indicators csv: %w", err)
	}
	return Result{Observations: observations, Path: path}, nil
}
