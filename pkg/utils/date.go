package utils

import (
	"log"
	"time"
)

// MarketWindow describes the local-time window during which the scheduler is
// allowed to run an evaluation cycle.
type MarketWindow struct {
	Location     *time.Location
	OpenHour     int
	CloseHour    int
	WeekdaysOnly bool
}

func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Fatal("Failed to load location ", err)
	}
	return loc
}

// Contains reports whether t falls inside the market-hours window. The close
// hour is exclusive: a 9-17 window runs the 9:00 through 16:00 cycles.
func (w MarketWindow) Contains(t time.Time) bool {
	local := t.In(w.Location)
	if w.WeekdaysOnly {
		switch local.Weekday() {
		case time.Saturday, time.Sunday:
			return false
		}
	}
	return local.Hour() >= w.OpenHour && local.Hour() < w.CloseHour
}

// UnixRange returns the [from, to] unix timestamps covering the past number of
// days, used for chart-history requests.
func UnixRange(now time.Time, days int) (int64, int64) {
	return now.AddDate(0, 0, -days).Unix(), now.Unix()
}
