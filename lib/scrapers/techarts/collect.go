package techarts

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mazen160/go-random"
)

// Collect fetches every target under a bounded worker pool and returns
// one observation per target, in target order. Failures never abort
// the run; they surface as non-OK statuses on their rows.
func (c *Client) Collect(ctx context.Context, targets []Target) []Observation {
	ctx, span := tracer.Start(ctx, "Collect")
	defer span.End()

	var wg sync.WaitGroup
	pool := make(chan struct{}, c.config.Workers)
	observations := make([]Observation, len(targets))

	for i, target := range targets {
		wg.Add(1)
		go func(i int, target Target) {
			defer wg.Done()
			pool <- struct{}{}
			defer func() { <-pool }()

			jitter(ctx)
			observations[i] = c.observe(ctx, target)
		}(i, target)
	}
	wg.Wait()

	return observations
}

func (c *Client) observe(ctx context.Context, target Target) Observation {
	observation := Observation{
		Bucket:    target.Bucket,
		Name:      target.Name,
		SourceURL: target.SourceURL,
	}

	serie, status, note := c.FetchSerie(ctx, target.Symbol)
	observation.Status = status
	if status != StatusOK {
		observation.Note = fmt.Sprintf("symbol=%s; %s", target.Symbol, string(status))
		if note != "" {
			observation.Note += ": " + note
		}
		slog.Warn("indicator fetch failed",
			"symbol", target.Symbol, "status", string(status), "note", note)
		return observation
	}

	if value, obsDate, ok := latestPoint(serie.Data); ok {
		observation.LatestValue = formatValue(value)
		observation.ObsDate = obsDate
	}
	observation.Unit = serie.Unit
	observation.DayChange = dayChange(serie)
	observation.Note = fmt.Sprintf("symbol=%s; points=%d; frequency=%s",
		target.Symbol, len(serie.Data), serie.Frequency)
	return observation
}

// jitter spaces requests out so a burst of workers does not hit the
// datasource in lockstep.
func jitter(ctx context.Context) {
	ms, err := random.IntRange(150, 650)
	if err != nil {
		ms = 300
	}
	select {
	case <-time.After(time.Duration(ms) * time.Millisecond):
	case <-ctx.Done():
	}
}
