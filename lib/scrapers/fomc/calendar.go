package fomc

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"econdata-backend/lib/htmlutil"
	"econdata-backend/lib/textutil"
)

const (
	yearMin = 2020
	yearMax = 2027
)

// every element class the calendar walk looks at, flattened in
// document order
const calendarBlockSelector = "h2, h3, h4, h5, p, div, li, tr, td, strong, b"

var (
	yearHeaderRegex = regexp.MustCompile(`(?i)\b(20\d{2})\s+FOMC\s+Meetings`)
	bareYearRegex   = regexp.MustCompile(`\b(20\d{2})\b`)
	monthRegex      = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|` +
		`September|October|November|December|Jan/Feb|Apr/May|Oct/Nov)\b`)
	dateRegex = regexp.MustCompile(`\d{1,2}(?:-\d{1,2})?`)
)

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var meetingKeywords = []string{"statement", "minutes", "press conference", "transcript"}

// statements that describe policy frameworks rather than a meeting's
// decision; they file under other materials
var specialStatementKeywords = []string{
	"longer-run goals", "monetary policy strategy", "notation vote",
	"plans for reducing", "balance sheet",
}

var headerTags = map[string]bool{
	"h2": true, "h3": true, "h4": true, "h5": true,
	"p": true, "div": true, "strong": true, "b": true,
}

var looseHeaderTags = map[string]bool{
	"h2": true, "h3": true, "h4": true, "h5": true,
}

var contentTags = map[string]bool{
	"p": true, "div": true, "li": true, "tr": true, "td": true,
}

var fullMonth = map[string]string{
	"jan": "January", "feb": "February", "mar": "March", "apr": "April",
	"may": "May", "jun": "June", "jul": "July", "aug": "August",
	"sep": "September", "oct": "October", "nov": "November", "dec": "December",
}

type yearSection struct {
	year  int
	start int
	end   int
}

// ParseCalendar extracts meeting candidates from the calendar page.
// Year sections are taken in DOM order: the page lists years in a
// visual order that does not match ascending numeric order, so
// sorting by year number would misattribute content.
func (c *Client) ParseCalendar(ctx context.Context, doc *goquery.Document) []*Meeting {
	ctx, span := tracer.Start(ctx, "ParseCalendar")
	defer span.End()

	blocks := htmlutil.Flatten(doc, calendarBlockSelector)
	sections := yearSections(blocks)

	seen := map[string]bool{}
	var meetings []*Meeting
	for _, section := range sections {
		meetings = append(meetings, c.parseSection(ctx, blocks, section, seen)...)
	}
	slog.Info("parsed fomc calendar",
		"years", len(sections), "meetings", len(meetings))
	return meetings
}

// yearSections finds "<YYYY> FOMC Meetings" headers in document order
// and partitions the block list between consecutive headers. When the
// strict pattern finds too few years, a looser heading scan fills in
// the rest.
func yearSections(blocks []htmlutil.Block) []yearSection {
	type header struct {
		year  int
		index int
	}
	var headers []header
	have := map[int]bool{}

	for _, block := range blocks {
		if !headerTags[block.Tag] || len(block.Text) > 80 {
			continue
		}
		match := yearHeaderRegex.FindStringSubmatch(block.Text)
		if match == nil {
			continue
		}
		year, _ := strconv.Atoi(match[1])
		if year < yearMin || year > yearMax || have[year] {
			continue
		}
		have[year] = true
		headers = append(headers, header{year: year, index: block.Index})
	}

	if len(headers) < 5 {
		for _, block := range blocks {
			if !looseHeaderTags[block.Tag] {
				continue
			}
			text := strings.TrimSpace(block.Text)
			if len(text) >= 30 || strings.Contains(text, "|") {
				continue
			}
			match := bareYearRegex.FindStringSubmatch(text)
			if match == nil {
				continue
			}
			year, _ := strconv.Atoi(match[1])
			if year < yearMin || year > yearMax || have[year] {
				continue
			}
			have[year] = true
			headers = append(headers, header{year: year, index: block.Index})
		}
	}

	sections := make([]yearSection, 0, len(headers))
	for i, h := range headers {
		end := len(blocks)
		if i+1 < len(headers) {
			end = headers[i+1].index
		}
		sections = append(sections, yearSection{year: h.year, start: h.index, end: end})
	}
	return sections
}

func (c *Client) parseSection(ctx context.Context, blocks []htmlutil.Block, section yearSection, seen map[string]bool) []*Meeting {
	var meetings []*Meeting

	for i := section.start + 1; i < section.end; i++ {
		block := blocks[i]
		if !contentTags[block.Tag] {
			continue
		}

		candidate, ok := detectCandidate(section.year, block.Text)
		if !ok {
			continue
		}
		key := candidate.ID()
		if seen[key] {
			continue
		}

		anchors := c.collectMeetingAnchors(ctx, blocks, i, section.end, candidate)
		if len(anchors) == 0 {
			// the date pattern matched incidentally, e.g. a footer
			// date, not a meeting entry
			continue
		}
		seen[key] = true

		for _, anchor := range anchors {
			c.classifyCalendarAnchor(candidate, anchor)
		}
		candidate.Unconfirmed = candidate.PressConferenceURL == "" &&
			candidate.StatementURL == "" &&
			candidate.MinutesURL == ""
		meetings = append(meetings, candidate)
	}
	return meetings
}

// detectCandidate recognizes "<Month> <D[-D]>" in a block's text,
// skipping blocks that describe a release event instead of a meeting.
func detectCandidate(year int, text string) (*Meeting, bool) {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "released") && textutil.ContainsAny(lower, monthNames...) {
		return nil, false
	}

	monthMatch := monthRegex.FindStringSubmatchIndex(text)
	if monthMatch == nil {
		return nil, false
	}
	monthRaw := text[monthMatch[2]:monthMatch[3]]
	if strings.Contains(strings.ToLower(text[:monthMatch[2]]), "released") {
		return nil, false
	}

	dates := dateRegex.FindString(text[monthMatch[3]:])
	if dates == "" {
		return nil, false
	}

	month := monthRaw
	if split, _, found := strings.Cut(monthRaw, "/"); found {
		if full, ok := fullMonth[strings.ToLower(split)]; ok {
			month = full
		} else {
			month = textutil.TitleCase(split)
		}
	}

	meetingType := "FOMC Meeting"
	if strings.Contains(lower, "notation vote") {
		meetingType = "Notation Vote"
	}

	return &Meeting{
		Year:  year,
		Month: month,
		Dates: dates,
		Type:  meetingType,
	}, true
}

type meetingAnchor struct {
	htmlutil.Anchor
	// text of the block the anchor came from
	context string
}

// collectMeetingAnchors gathers links from the candidate's own block
// and a small window of following blocks. The window is bounded and
// stops at the next meeting candidate so links never bleed across
// meetings.
func (c *Client) collectMeetingAnchors(ctx context.Context, blocks []htmlutil.Block, index, sectionEnd int, meeting *Meeting) []meetingAnchor {
	monthLower := strings.ToLower(meeting.Month)

	var anchors []meetingAnchor
	seenHref := map[string]bool{}
	appendFrom := func(block htmlutil.Block) {
		blockText := strings.ToLower(block.Text)
		hasOurDate := strings.Contains(blockText, monthLower) && strings.Contains(blockText, meeting.Dates)
		for _, anchor := range htmlutil.GetAnchors(ctx, block.Sel.Find("a[href]")) {
			lowered := strings.ToLower(anchor.Name + " " + anchor.Href)
			if !hasOurDate && !textutil.ContainsAny(lowered, meetingKeywords...) {
				continue
			}
			if anchor.Href == "" || seenHref[anchor.Href] {
				continue
			}
			seenHref[anchor.Href] = true
			anchors = append(anchors, meetingAnchor{Anchor: anchor, context: blockText})
		}
	}

	appendFrom(blocks[index])

	// table rows carry all their links inline; only paragraph-style
	// layouts need the sibling window
	if blocks[index].Tag == "tr" {
		return anchors
	}

	window := 0
	for next := index + 1; next < sectionEnd && window < 5; next++ {
		block := blocks[next]
		if !contentTags[block.Tag] {
			continue
		}
		window++

		if other, ok := detectCandidate(meeting.Year, block.Text); ok && other.ID() != meeting.ID() {
			break
		}
		blockText := strings.ToLower(block.Text)
		hasKeywords := textutil.ContainsAny(blockText, meetingKeywords...)
		hasOurDate := strings.Contains(blockText, monthLower) && strings.Contains(blockText, meeting.Dates)
		if hasKeywords || hasOurDate {
			appendFrom(block)
		}
	}
	return anchors
}

// classifyCalendarAnchor routes one link to its slot on the meeting.
// Explicit keyword matches win; HTML beats PDF for statement and
// minutes; everything else files under other materials.
func (c *Client) classifyCalendarAnchor(meeting *Meeting, anchor meetingAnchor) {
	text := strings.ToLower(anchor.Name)
	href := strings.ToLower(anchor.Href)
	full := htmlutil.ResolveHref(c.base, anchor.Href)
	if full == "" {
		return
	}

	switch {
	case strings.Contains(text, "press conference") ||
		strings.Contains(text, "pressconference") ||
		strings.Contains(href, "press conference") ||
		strings.Contains(href, "pressconference"):
		if meeting.PressConferenceURL == "" {
			meeting.PressConferenceURL = full
		}

	case strings.Contains(text, "statement"):
		if textutil.ContainsAny(text, specialStatementKeywords...) {
			meeting.addOtherMaterial(full)
			return
		}
		if strings.Contains(href, ".htm") || (!strings.Contains(href, ".pdf") && meeting.StatementURL == "") {
			meeting.StatementURL = full
		} else if strings.Contains(href, ".pdf") && meeting.StatementURL == "" {
			meeting.addOtherMaterial(full)
		}

	case strings.Contains(text, "minutes"):
		if strings.Contains(href, ".htm") || (!strings.Contains(href, ".pdf") && meeting.MinutesURL == "") {
			meeting.MinutesURL = full
		}

	case text == "html" || text == "pdf" || text == "":
		// bare format labels lean on the surrounding block text
		switch {
		case strings.Contains(anchor.context, "statement") &&
			meeting.StatementURL == "" &&
			!textutil.ContainsAny(anchor.context, specialStatementKeywords...):
			if strings.Contains(href, ".htm") || (text == "html" && !strings.Contains(href, ".pdf")) {
				meeting.StatementURL = full
			}
		case strings.Contains(anchor.context, "minutes") && meeting.MinutesURL == "":
			if strings.Contains(href, ".htm") || (text == "html" && !strings.Contains(href, ".pdf")) {
				meeting.MinutesURL = full
			}
		}

	default:
		if full != meeting.PressConferenceURL &&
			full != meeting.StatementURL &&
			full != meeting.MinutesURL {
			meeting.addOtherMaterial(full)
		}
	}
}

func (m *Meeting) addOtherMaterial(url string) {
	for _, existing := range m.OtherMaterialURLs {
		if existing == url {
			return
		}
	}
	m.OtherMaterialURLs = append(m.OtherMaterialURLs, url)
}

// FetchMeetings downloads the calendar page and parses it.
func (c *Client) FetchMeetings(ctx context.Context) ([]*Meeting, error) {
	doc, err := c.fetchDocument(ctx, c.config.CalendarURL)
	if err != nil {
		return nil, err
	}
	return c.ParseCalendar(ctx, doc), nil
}
