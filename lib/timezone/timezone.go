package timezone

import "time"

// Display is the fixed timezone every normalized timestamp is
// converted into for output (Korea Standard Time).
var Display *time.Location

func init() {
	var err error
	Display, err = time.LoadLocation("Asia/Seoul")
	if err != nil {
		panic(err)
	}
}

// force the clock into the display timezone because servers may end
// up in arbitrary regions, which disturbs date windows derived from
// <time.Time>.Year()/Month()/Day()/Hour()/...
func Now() time.Time {
	return time.Now().In(Display)
}

// ToDisplay converts a UTC instant into the display timezone. It is a
// pure conversion, display times are never parsed independently.
func ToDisplay(utc *time.Time) *time.Time {
	if utc == nil {
		return nil
	}
	converted := utc.In(Display)
	return &converted
}

// CurrentWindow returns the rolling scrape window in display time:
// midnight `days` days ago through the end of the day `days` days
// ahead.
func CurrentWindow(now time.Time, days int) (time.Time, time.Time) {
	now = now.In(Display)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, Display).AddDate(0, 0, -days)
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, Display).AddDate(0, 0, days)
	return start, end
}
