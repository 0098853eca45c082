package fomc

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"econdata-backend/lib/htmlutil"
	"econdata-backend/lib/textutil"
)

// Speech is one Federal Reserve speech entry with an HTML transcript.
type Speech struct {
	Title         string
	Speaker       string
	Date          string
	TranscriptURL string
	SourceURL     string
}

var (
	byPrefixRegex   = regexp.MustCompile(`(?i)^by\s+`)
	speechDateRegex = regexp.MustCompile(`\b(\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\w+\s+\d{1,2},?\s+\d{4})\b`)
)

// FetchSpeeches scrapes the speeches index for transcript links.
func (c *Client) FetchSpeeches(ctx context.Context) ([]Speech, error) {
	ctx, span := tracer.Start(ctx, "FetchSpeeches")
	defer span.End()

	doc, err := c.fetchDocument(ctx, c.config.SpeechesURL)
	if err != nil {
		return nil, err
	}
	return c.ParseSpeeches(doc), nil
}

// ParseSpeeches collects HTML transcript links off the speeches index.
// PDF links are skipped and duplicate URLs collapse to their first
// occurrence. Title, speaker, and date are best-effort reads of the
// link's surrounding container.
func (c *Client) ParseSpeeches(doc *goquery.Document) []Speech {
	var speeches []Speech
	seen := map[string]bool{}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		linkText := strings.ToLower(textutil.CleanText(sel.Text()))
		hrefLower := strings.ToLower(href)

		// prefer the structural list item over the immediate
		// paragraph, which usually holds only the format links
		parent := sel.Closest("article, li, td")
		if parent.Length() == 0 {
			parent = sel.Closest("div, p")
		}
		parentText := ""
		if parent.Length() > 0 {
			parentText = parent.Text()
		}

		isTranscript := strings.Contains(linkText, "transcript") ||
			strings.Contains(hrefLower, "transcript") ||
			(linkText == "html" && strings.Contains(strings.ToLower(parentText), "transcript"))
		if !isTranscript || strings.Contains(hrefLower, ".pdf") {
			return
		}

		full := htmlutil.ResolveHref(c.base, href)
		if full == "" || seen[full] {
			return
		}
		seen[full] = true

		speech := Speech{
			TranscriptURL: full,
			SourceURL:     c.config.SpeechesURL,
		}
		if parent.Length() > 0 {
			speech.Title = speechTitle(parent, sel)
			speech.Speaker = speechSpeaker(parent)
			speech.Date = speechDate(parentText)
		}
		if speech.Title == "" {
			speech.Title = textutil.CleanText(sel.Text())
		}
		if speech.Title == "" {
			speech.Title = "Untitled Speech"
		}
		speeches = append(speeches, speech)
	})

	return speeches
}

func speechTitle(parent, link *goquery.Selection) string {
	heading := parent.Find("h2, h3, h4, h5, strong, b").First()
	if heading.Length() > 0 {
		return textutil.CleanText(heading.Text())
	}
	title := ""
	parent.Find("a[href]").EachWithBreak(func(_ int, other *goquery.Selection) bool {
		if other.Nodes[0] == link.Nodes[0] {
			return true
		}
		title = textutil.CleanText(other.Text())
		return false
	})
	return title
}

func speechSpeaker(parent *goquery.Selection) string {
	speaker := parent.Find(".speaker, .author, [class*=speaker], [class*=author]").First()
	if speaker.Length() > 0 {
		return byPrefixRegex.ReplaceAllString(textutil.CleanText(speaker.Text()), "")
	}
	for _, line := range strings.Split(parent.Text(), "\n") {
		line = textutil.CleanText(line)
		if byPrefixRegex.MatchString(line) {
			return byPrefixRegex.ReplaceAllString(line, "")
		}
	}
	return ""
}

func speechDate(text string) string {
	return speechDateRegex.FindString(text)
}

// DownloadSpeeches saves each transcript page under dir, with a
// markdown rendition. Existing files are skipped.
func (c *Client) DownloadSpeeches(ctx context.Context, speeches []Speech, dir string) (DownloadStats, error) {
	ctx, span := tracer.Start(ctx, "DownloadSpeeches")
	defer span.End()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return DownloadStats{}, err
	}

	converter := md.NewConverter("", true, nil)
	var stats DownloadStats
	for _, speech := range speeches {
		path := filepath.Join(dir, speechFilename(speech))
		if _, err := os.Stat(path); err == nil {
			stats.Skipped++
			continue
		}

		contents, err := c.fetchPage(ctx, speech.TranscriptURL)
		if err != nil {
			stats.Failed++
			continue
		}
		if err := os.WriteFile(path, contents, 0o644); err != nil {
			return stats, err
		}
		stats.Downloaded++

		if err := writeMarkdownRendition(converter, path, contents); err != nil {
			stats.Failed++
		}
	}
	return stats, nil
}

var filenameUnsafe = regexp.MustCompile(`[^a-z0-9._-]+`)

func speechFilename(speech Speech) string {
	slug := filenameUnsafe.ReplaceAllString(strings.ToLower(speech.Title), "_")
	slug = strings.Trim(slug, "_")
	if len(slug) > 80 {
		slug = slug[:80]
	}
	if slug == "" {
		slug = "speech_transcript"
	}
	return slug + ".html"
}
