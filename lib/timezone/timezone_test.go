package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestToDisplay(t *testing.T) {
	utc := time.Date(2025, time.January, 29, 19, 0, 0, 0, time.UTC)
	got := ToDisplay(&utc)
	require.NotNil(t, got)
	require.Equal(t, time.Date(2025, time.January, 30, 4, 0, 0, 0, Display), *got)

	require.Nil(t, ToDisplay(nil))
}

func TestCurrentWindow(t *testing.T) {
	now := time.Date(2025, time.March, 10, 13, 45, 0, 0, Display)
	start, end := CurrentWindow(now, 7)
	require.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, Display), start)
	require.Equal(t, time.Date(2025, time.March, 17, 23, 59, 59, 0, Display), end)
}
