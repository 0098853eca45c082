package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func dateCtx(y int, m time.Month, d int) *time.Time {
	dt := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &dt
}

func TestParse(t *testing.T) {
	cases := []struct {
		name   string
		text   string
		ctx    *time.Time
		tz     *time.Location
		expect *time.Time
	}{
		{
			name:   "morning release",
			text:   "8:30 AM",
			ctx:    dateCtx(2025, time.January, 15),
			expect: instant(2025, time.January, 15, 8, 30),
		},
		{
			name:   "24 hour clock",
			text:   "14:00",
			ctx:    dateCtx(2025, time.January, 15),
			expect: instant(2025, time.January, 15, 14, 0),
		},
		{
			name:   "lowercase meridiem",
			text:   "8:30 am",
			ctx:    dateCtx(2025, time.January, 15),
			expect: instant(2025, time.January, 15, 8, 30),
		},
		{name: "all day sentinel", text: "All Day", ctx: dateCtx(2025, time.January, 15)},
		{name: "tentative sentinel", text: "Tentative", ctx: dateCtx(2025, time.January, 15)},
		{name: "dashes sentinel", text: "--", ctx: dateCtx(2025, time.January, 15)},
		{name: "na sentinel", text: "N/A", ctx: dateCtx(2025, time.January, 15)},
		{name: "empty text", text: "   ", ctx: dateCtx(2025, time.January, 15)},
		{name: "no date context", text: "8:30 AM"},
		{name: "garbage", text: "next Tuesday-ish", ctx: dateCtx(2025, time.January, 15)},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			got := Parse(test.text, test.ctx, test.tz)
			if test.expect == nil {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.Equal(t, *test.expect, *got)
		})
	}
}

func TestParseHonorsSiteTimezone(t *testing.T) {
	est, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	got := Parse("8:30 AM", dateCtx(2025, time.January, 15), est)
	require.NotNil(t, got)
	// 8:30 EST is 13:30 UTC in January
	require.Equal(t, *instant(2025, time.January, 15, 13, 30), *got)
}

func TestExtractDateFromClasses(t *testing.T) {
	require.Equal(t, "2025-03-04", ExtractDateFromClasses([]string{"calendar-item", "2025-03-04", "hidden-head"}))
	require.Equal(t, "", ExtractDateFromClasses([]string{"calendar-item"}))
	require.Equal(t, "", ExtractDateFromClasses(nil))
}

func instant(y int, m time.Month, d, hh, mm int) *time.Time {
	dt := time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
	return &dt
}
