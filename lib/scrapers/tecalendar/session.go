package tecalendar

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// PageSession abstracts the browser automation handle the DOM strategy
// drives. Tests substitute a canned implementation so the strategy's
// normalization can be exercised without a browser.
type PageSession interface {
	Navigate(ctx context.Context, url string) error
	ApplyFilters(ctx context.Context, country string, filters Filters) error
	ExtractRows(ctx context.Context, config Config) ([]RawRow, error)
	Close() error
}

type browserSession struct {
	ctx     context.Context
	cancels []context.CancelFunc
	domain  string
}

// NewBrowserSession starts a headless browser context. The caller owns
// the session and must Close it.
func NewBrowserSession(ctx context.Context, userAgent, cookieDomain string) (PageSession, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(userAgent),
		chromedp.WindowSize(1440, 900),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// fail now if the browser cannot start
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &browserSession{
		ctx:     browserCtx,
		cancels: []context.CancelFunc{cancelBrowser, cancelAlloc},
		domain:  cookieDomain,
	}, nil
}

func (s *browserSession) Navigate(ctx context.Context, url string) error {
	run, cancel := s.deadline(ctx, time.Second*60)
	defer cancel()

	err := chromedp.Run(run,
		chromedp.Navigate(url),
		// the filter helpers load late, after the calendar script
		chromedp.Poll("typeof saveSelectionAndGO === 'function'", nil,
			chromedp.WithPollingTimeout(time.Second*30)),
	)
	if err != nil {
		return fmt.Errorf("navigate calendar: %w", err)
	}
	return nil
}

func (s *browserSession) ApplyFilters(ctx context.Context, country string, filters Filters) error {
	run, cancel := s.deadline(ctx, time.Second*60)
	defer cancel()

	// the date range rides on a cookie the site reads at reload time
	err := chromedp.Run(run,
		network.SetCookie(cookieRange, rangeCustom).
			WithDomain(s.domain).WithPath("/"),
		network.SetCookie(cookieCustomRange, filters.customRangeValue()).
			WithDomain(s.domain).WithPath("/"),
	)
	if err != nil {
		return fmt.Errorf("set range cookies: %w", err)
	}

	importanceScript := fmt.Sprintf(
		`typeof setCalendarImportance === 'function' && setCalendarImportance(%q)`,
		filters.importanceValue(),
	)
	err = chromedp.Run(run,
		chromedp.Evaluate(importanceScript, nil),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		return fmt.Errorf("apply importance filter: %w", err)
	}

	// country selection goes through the page's own helpers, which
	// persist the choice and trigger a reload
	selectionScript := fmt.Sprintf(`(() => {
		if (typeof clearSelection === 'function') {
			clearSelection();
		}
		window.selected_countries = [%q];
		if (typeof saveSelectionAndGO === 'function') {
			saveSelectionAndGO();
		}
	})()`, country)
	err = chromedp.Run(run,
		chromedp.Evaluate(selectionScript, nil),
		chromedp.WaitReady("body"),
		chromedp.WaitVisible("#calendar", chromedp.ByID),
	)
	if err != nil {
		return fmt.Errorf("apply country filter: %w", err)
	}
	return nil
}

func (s *browserSession) ExtractRows(ctx context.Context, config Config) ([]RawRow, error) {
	run, cancel := s.deadline(ctx, time.Second*30)
	defer cancel()

	script := fmt.Sprintf(`(() => {
		const rowSel = %q, timeSel = %q, titleSel = %q, linkSel = %q;
		return Array.from(document.querySelectorAll(rowSel)).map(row => {
			const timeSpan = timeSel ? row.querySelector(timeSel) : null;
			const dateCell = timeSpan ? timeSpan.closest('td') : row.querySelector('td');
			const titleAnchor = titleSel ? row.querySelector(titleSel) : null;
			const linkAnchor = (linkSel ? row.querySelector(linkSel) : null) || titleAnchor;
			const readText = sel => {
				const el = sel ? row.querySelector(sel) : null;
				return el ? el.textContent.trim() : '';
			};
			return {
				eventId: row.dataset.id || '',
				country: row.dataset.country || '',
				category: row.dataset.category || '',
				eventSlug: row.dataset.url || '',
				timeText: timeSpan ? timeSpan.textContent.trim() : '',
				dateClasses: dateCell ? Array.from(dateCell.classList) : [],
				title: titleAnchor ? titleAnchor.textContent.trim() : '',
				href: linkAnchor ? linkAnchor.getAttribute('href') || '' : '',
				actual: readText('#actual'),
				previous: readText('#previous'),
				consensus: readText('#consensus'),
				forecast: readText('#forecast'),
			};
		});
	})()`, config.RowSelector, config.TimeSelector, config.TitleSelector, config.LinkSelector)

	var raws []RawRow
	if err := chromedp.Run(run, chromedp.Evaluate(script, &raws)); err != nil {
		return nil, fmt.Errorf("extract rows: %w", err)
	}
	return raws, nil
}

func (s *browserSession) Close() error {
	for _, cancel := range s.cancels {
		cancel()
	}
	return nil
}

// deadline binds a chromedp run to both the caller's context and a
// hard timeout while keeping the browser's own context alive.
func (s *browserSession) deadline(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	run, cancelRun := context.WithCancel(s.ctx)
	stop := context.AfterFunc(ctx, cancelRun)
	timed, cancelTimed := context.WithTimeout(run, timeout)
	return timed, func() {
		stop()
		cancelTimed()
		cancelRun()
	}
}
