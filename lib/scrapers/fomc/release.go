package fomc

import (
	"regexp"
	"time"

	"econdata-backend/lib/textutil"
)

var (
	releasedRegex = regexp.MustCompile(`(?i)Released\s+(January|February|March|April|May|June|July|August|` +
		`September|October|November|December)\s+(\d{1,2}),\s+(\d{4})`)
	anyDateRegex = regexp.MustCompile(`(?i)(January|February|March|April|May|June|July|August|` +
		`September|October|November|December)\s+(\d{1,2}),\s+(\d{4})`)
)

// ParseReleaseDate finds a release timestamp in free text. The
// explicit "Released Month D, YYYY" form wins; a bare "Month D, YYYY"
// is accepted as a fallback. Returns nil when neither appears.
func ParseReleaseDate(text string) *time.Time {
	for _, pattern := range []*regexp.Regexp{releasedRegex, anyDateRegex} {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		parsed, err := time.Parse("January 2, 2006",
			textutil.TitleCase(match[1])+" "+match[2]+", "+match[3])
		if err != nil {
			continue
		}
		return &parsed
	}
	return nil
}
