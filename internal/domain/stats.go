package domain

import (
	"fmt"
	"math"
	"time"
)

// GrowthStats is the month-over-month creation count comparison shared by
// user, listing and review statistics.
type GrowthStats struct {
	ThisMonth  int     `json:"thisMonth"`
	LastMonth  int     `json:"lastMonth"`
	Growth     float64 `json:"growth"`
	IsPositive bool    `json:"isPositive"`
}

// NewGrowthStats computes the growth percentage for the two counts:
// 100 when last month was zero and this month is not, 0 when both are zero,
// otherwise the relative change rounded to one decimal place.
func NewGrowthStats(thisMonth, lastMonth int) GrowthStats {
	var pct float64
	switch {
	case lastMonth > 0:
		pct = Round1(float64(thisMonth-lastMonth) / float64(lastMonth) * 100)
	case thisMonth > 0:
		pct = 100
	default:
		pct = 0
	}
	return GrowthStats{
		ThisMonth:  thisMonth,
		LastMonth:  lastMonth,
		Growth:     pct,
		IsPositive: pct >= 0,
	}
}

// MonthBounds returns [thisStart, nextStart) for the reference month and the
// start of the immediately preceding calendar month, handling the January
// rollover into the previous year.
func MonthBounds(now time.Time) (thisStart, nextStart, lastStart time.Time) {
	y, m, _ := now.Date()
	loc := now.Location()
	thisStart = time.Date(y, m, 1, 0, 0, 0, 0, loc)
	nextStart = thisStart.AddDate(0, 1, 0)
	lastStart = thisStart.AddDate(0, -1, 0)
	return thisStart, nextStart, lastStart
}

// Round1 rounds to one decimal place.
func Round1(f float64) float64 { return math.Round(f*10) / 10 }

// TimeAgo renders the largest whole unit between t and now as "X ago",
// e.g. "3 days ago". Sub-minute ages render as "0 minutes ago".
func TimeAgo(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	type unit struct {
		span time.Duration
		name string
	}
	units := []unit{
		{365 * 24 * time.Hour, "year"},
		{30 * 24 * time.Hour, "month"},
		{7 * 24 * time.Hour, "week"},
		{24 * time.Hour, "day"},
		{time.Hour, "hour"},
	}
	for _, u := range units {
		if n := int(d / u.span); n >= 1 {
			return plural(n, u.name) + " ago"
		}
	}
	return plural(int(d/time.Minute), "minute") + " ago"
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
