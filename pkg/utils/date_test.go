package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketWindow_Contains(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	window := MarketWindow{
		Location:     newYork,
		OpenHour:     9,
		CloseHour:    17,
		WeekdaysOnly: true,
	}

	// 2025-06-02 is a Monday, 2025-06-07 a Saturday, 2025-06-08 a Sunday.
	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{
			name: "inside the window",
			t:    time.Date(2025, 6, 2, 12, 30, 0, 0, newYork),
			want: true,
		},
		{
			name: "exactly at the open hour",
			t:    time.Date(2025, 6, 2, 9, 0, 0, 0, newYork),
			want: true,
		},
		{
			name: "last minute before the close hour",
			t:    time.Date(2025, 6, 2, 16, 59, 0, 0, newYork),
			want: true,
		},
		{
			name: "exactly at the close hour is outside",
			t:    time.Date(2025, 6, 2, 17, 0, 0, 0, newYork),
			want: false,
		},
		{
			name: "before the open hour",
			t:    time.Date(2025, 6, 2, 8, 59, 0, 0, newYork),
			want: false,
		},
		{
			name: "saturday is skipped",
			t:    time.Date(2025, 6, 7, 12, 0, 0, 0, newYork),
			want: false,
		},
		{
			name: "sunday is skipped",
			t:    time.Date(2025, 6, 8, 12, 0, 0, 0, newYork),
			want: false,
		},
		{
			name: "utc instant is converted to the window timezone",
			// 14:00 UTC on a Monday is 10:00 in New York (EDT).
			t:    time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "utc evening is outside after conversion",
			// 22:00 UTC is 18:00 in New York.
			t:    time.Date(2025, 6, 2, 22, 0, 0, 0, time.UTC),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, window.Contains(tt.t))
		})
	}
}

func TestMarketWindow_Contains_WeekendsAllowed(t *testing.T) {
	window := MarketWindow{
		Location:     time.UTC,
		OpenHour:     9,
		CloseHour:    17,
		WeekdaysOnly: false,
	}

	saturday := time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC)
	assert.True(t, window.Contains(saturday))
}
