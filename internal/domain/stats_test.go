package domain

import (
	"testing"
	"time"
)

func TestNewGrowthStats(t *testing.T) {
	cases := []struct {
		this, last int
		growth     float64
		positive   bool
	}{
		{0, 0, 0, true},
		{5, 0, 100, true},
		{15, 10, 50.0, true},
		{4, 10, -60.0, false},
		{1, 3, -66.7, false},
	}
	for _, c := range cases {
		got := NewGrowthStats(c.this, c.last)
		if got.Growth != c.growth || got.IsPositive != c.positive {
			t.Errorf("NewGrowthStats(%d, %d) = %+v, want growth=%v positive=%v",
				c.this, c.last, got, c.growth, c.positive)
		}
	}
}

func TestMonthBounds_JanuaryRollover(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	thisStart, nextStart, lastStart := MonthBounds(now)

	if !thisStart.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("thisStart = %v", thisStart)
	}
	if !nextStart.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("nextStart = %v", nextStart)
	}
	if !lastStart.Equal(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("lastStart = %v, want December of previous year", lastStart)
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		age  time.Duration
		want string
	}{
		{30 * time.Second, "0 minutes ago"},
		{time.Minute, "1 minute ago"},
		{45 * time.Minute, "45 minutes ago"},
		{3 * time.Hour, "3 hours ago"},
		{26 * time.Hour, "1 day ago"},
		{8 * 24 * time.Hour, "1 week ago"},
		{65 * 24 * time.Hour, "2 months ago"},
		{400 * 24 * time.Hour, "1 year ago"},
	}
	for _, c := range cases {
		if got := TimeAgo(now.Add(-c.age), now); got != c.want {
			t.Errorf("TimeAgo(-%v) = %q, want %q", c.age, got, c.want)
		}
	}
}
