package tecalendar

import (
	"context"
	"fmt"
)

// ScrapeDOM is the browser-session strategy. It is strictly
// sequential: one page, one filter state at a time, because the site
// keeps filter state in page globals and cookies that are unsafe to
// share. A navigation or filter failure aborts the scrape since the
// session cannot recover mid-flight.
func (c *Client) ScrapeDOM(ctx context.Context, session PageSession, filters Filters, importance map[string]int) ([]Event, error) {
	ctx, span := tracer.Start(ctx, "ScrapeDOM")
	defer span.End()

	if err := session.Navigate(ctx, c.config.CalendarURL); err != nil {
		return nil, err
	}
	if err := session.ApplyFilters(ctx, c.config.CountryToken, filters); err != nil {
		return nil, err
	}

	raws, err := session.ExtractRows(ctx, c.config)
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("row selector %q matched nothing", c.config.RowSelector)
	}
	return c.normalizeRows(raws, importance), nil
}
