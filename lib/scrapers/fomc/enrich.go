package fomc

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"econdata-backend/lib/htmlutil"
	"econdata-backend/lib/textutil"
)

// Enrich follows each meeting's own page to harvest canonical
// document URLs and a release date. Meetings with a press conference
// link use that page; the rest fall back to the statement or first
// other-material link. Fetches run concurrently under a bounded pool;
// a single meeting's failure is logged and isolated.
func (c *Client) Enrich(ctx context.Context, meetings []*Meeting) {
	ctx, span := tracer.Start(ctx, "Enrich")
	defer span.End()

	var wg sync.WaitGroup
	pool := make(chan struct{}, c.config.Workers)
	for _, meeting := range meetings {
		wg.Add(1)
		go func(meeting *Meeting) {
			defer wg.Done()
			pool <- struct{}{}
			defer func() { <-pool }()

			var err error
			if meeting.PressConferenceURL != "" {
				err = c.enrichFromPressConference(ctx, meeting)
			} else {
				err = c.enrichFromFallback(ctx, meeting)
			}
			if err != nil {
				slog.Warn("failed to enrich meeting",
					"meeting", meeting.ID(), "err", err)
			}
		}(meeting)
	}
	wg.Wait()
}

// enrichFromPressConference reads the press conference page: the
// statement and minutes in HTML form, the transcript PDF, and the
// "Released Month D, YYYY" timestamp.
func (c *Client) enrichFromPressConference(ctx context.Context, meeting *Meeting) error {
	doc, err := c.fetchDocument(ctx, meeting.PressConferenceURL)
	if err != nil {
		return err
	}
	meeting.PageURL = meeting.PressConferenceURL

	// context for each anchor is its nearest block-level ancestor,
	// not the whole page
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		blockText := strings.ToLower(htmlutil.CleanBlockText(sel.Closest("p, div, li, td, span")))
		for _, anchor := range htmlutil.GetAnchors(ctx, sel) {
			c.classifyMeetingPageAnchor(meeting, anchor, blockText)
		}
	})

	blocks := htmlutil.Flatten(doc, "p, li, td")

	// release date: statement block first, then minutes, then
	// anywhere on the page
	for _, phrase := range []string{"statement", "minutes"} {
		if meeting.ReleaseDate != nil {
			break
		}
		for _, block := range blocks {
			if !strings.Contains(strings.ToLower(block.Text), phrase) {
				continue
			}
			if released := ParseReleaseDate(block.Text); released != nil {
				meeting.ReleaseDate = released
				break
			}
		}
	}
	if meeting.ReleaseDate == nil {
		meeting.ReleaseDate = ParseReleaseDate(doc.Text())
	}
	return nil
}

func (c *Client) classifyMeetingPageAnchor(meeting *Meeting, anchor htmlutil.Anchor, blockText string) {
	text := strings.ToLower(anchor.Name)
	href := strings.ToLower(anchor.Href)
	full := htmlutil.ResolveHref(c.base, anchor.Href)
	if full == "" {
		return
	}

	if meeting.StatementHTMLURL == "" {
		special := textutil.ContainsAny(text, specialStatementKeywords...) ||
			textutil.ContainsAny(blockText, specialStatementKeywords...)
		switch {
		case strings.Contains(text, "statement") && !special:
			if strings.Contains(href, ".htm") && !strings.Contains(href, ".pdf") {
				meeting.StatementHTMLURL = full
			}
		case text == "html" && strings.Contains(blockText, "statement") && !special:
			if !strings.Contains(href, ".pdf") {
				meeting.StatementHTMLURL = full
			}
		}
	}

	if meeting.TranscriptPDFURL == "" && strings.Contains(href, ".pdf") {
		if strings.Contains(text, "press conference") ||
			strings.Contains(text, "transcript") ||
			strings.Contains(blockText, "press conference") {
			meeting.TranscriptPDFURL = full
		}
	}

	if meeting.MinutesHTMLURL == "" {
		switch {
		case strings.Contains(text, "minutes"):
			if strings.Contains(href, ".htm") && !strings.Contains(href, ".pdf") {
				meeting.MinutesHTMLURL = full
			}
		case text == "html" && strings.Contains(blockText, "minutes"):
			if !strings.Contains(href, ".pdf") {
				meeting.MinutesHTMLURL = full
			}
		}
	}
}

// enrichFromFallback handles meetings without a press conference: it
// follows the statement link (or the first other material, or the
// minutes link) and harvests only PDF links and a release date.
func (c *Client) enrichFromFallback(ctx context.Context, meeting *Meeting) error {
	target := meeting.StatementURL
	if target == "" && len(meeting.OtherMaterialURLs) > 0 {
		target = meeting.OtherMaterialURLs[0]
	}
	if target == "" {
		target = meeting.MinutesURL
	}
	if target == "" {
		return nil
	}

	doc, err := c.fetchDocument(ctx, target)
	if err != nil {
		return err
	}
	meeting.PageURL = target

	for _, anchor := range htmlutil.GetAnchors(ctx, doc.Find("a[href]")) {
		if !strings.Contains(strings.ToLower(anchor.Href), ".pdf") {
			continue
		}
		if full := htmlutil.ResolveHref(c.base, anchor.Href); full != "" {
			meeting.addOtherMaterial(full)
		}
	}

	meeting.ReleaseDate = ParseReleaseDate(doc.Text())
	if meeting.ReleaseDate == nil {
		for _, block := range htmlutil.Flatten(doc, "h1, h2, h3, h4, h5") {
			if released := ParseReleaseDate(block.Text); released != nil {
				meeting.ReleaseDate = released
				break
			}
		}
	}
	return nil
}
