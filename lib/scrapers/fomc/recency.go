package fomc

import (
	"sort"
)

type monthKey struct {
	year  int
	month int
}

// FilterRecent keeps every meeting whose release falls in one of the
// `months` most recent distinct (year, month) release pairs. Meetings
// without a release date cannot participate in the filter; they come
// back in the second return value so callers can report them instead
// of losing them silently.
func FilterRecent(meetings []*Meeting, months int) (recent, dateless []*Meeting) {
	var dated []*Meeting
	for _, meeting := range meetings {
		if meeting.ReleaseDate == nil {
			dateless = append(dateless, meeting)
		} else {
			dated = append(dated, meeting)
		}
	}
	if len(dated) == 0 {
		return nil, dateless
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].ReleaseDate.After(*dated[j].ReleaseDate)
	})

	keep := map[monthKey]bool{}
	for _, meeting := range dated {
		key := monthKey{
			year:  meeting.ReleaseDate.Year(),
			month: int(meeting.ReleaseDate.Month()),
		}
		if keep[key] {
			continue
		}
		if len(keep) >= months {
			break
		}
		keep[key] = true
	}

	for _, meeting := range dated {
		key := monthKey{
			year:  meeting.ReleaseDate.Year(),
			month: int(meeting.ReleaseDate.Month()),
		}
		if keep[key] {
			recent = append(recent, meeting)
		}
	}
	return recent, dateless
}
