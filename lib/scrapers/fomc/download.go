package fomc

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// DownloadStats summarizes one download pass.
type DownloadStats struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// DownloadDocuments saves every document of every meeting under dir,
// named "{meeting-id}_{doctype}.{ext}". Files already on disk are
// skipped, so re-runs only pull what is new. HTML documents also get
// a markdown rendition next to the original.
func (c *Client) DownloadDocuments(ctx context.Context, meetings []*Meeting, dir string) (DownloadStats, error) {
	ctx, span := tracer.Start(ctx, "DownloadDocuments")
	defer span.End()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return DownloadStats{}, err
	}

	converter := md.NewConverter("", true, nil)
	var stats DownloadStats
	for _, meeting := range meetings {
		for _, document := range meeting.Documents() {
			if document.Type == DocOther {
				continue
			}
			name := documentFilename(meeting, document)
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				stats.Skipped++
				continue
			}

			contents, err := c.fetchPage(ctx, document.URL)
			if err != nil {
				slog.Warn("failed to download document",
					"meeting", meeting.ID(), "url", document.URL, "err", err)
				stats.Failed++
				continue
			}
			if err := os.WriteFile(path, contents, 0o644); err != nil {
				return stats, err
			}
			stats.Downloaded++

			if strings.HasSuffix(name, ".html") {
				if err := writeMarkdownRendition(converter, path, contents); err != nil {
					slog.Warn("failed to render markdown",
						"file", name, "err", err)
				}
			}
		}
	}
	return stats, nil
}

func documentFilename(meeting *Meeting, document Document) string {
	suffix := map[DocumentType]string{
		DocStatement:  "statement.html",
		DocMinutes:    "minutes.html",
		DocTranscript: "press_conference.pdf",
	}[document.Type]
	if suffix == "" {
		suffix = "material" + filepath.Ext(document.URL)
	}
	return fmt.Sprintf("%s_%s", meeting.ID(), suffix)
}

// writeMarkdownRendition saves a .md next to a downloaded HTML file so
// the materials are greppable without a browser.
func writeMarkdownRendition(converter *md.Converter, htmlPath string, contents []byte) error {
	rendered, err := converter.ConvertString(string(contents))
	if err != nil {
		return err
	}
	target := strings.TrimSuffix(htmlPath, ".html") + ".md"
	return os.WriteFile(target, []byte(rendered), 0o644)
}
