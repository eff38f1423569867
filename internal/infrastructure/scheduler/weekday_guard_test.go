package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var weekend = []time.Weekday{time.Saturday, time.Sunday}

func TestWeekdayGuardAllow(t *testing.T) {
	t.Parallel()

	g := NewWeekdayGuard(weekend, time.UTC)

	cases := []struct {
		name string
		now  time.Time
		ok   bool
	}{
		{"monday", time.Date(2026, 2, 16, 9, 0, 0, 0, time.UTC), true},
		{"friday", time.Date(2026, 2, 20, 23, 59, 0, 0, time.UTC), true},
		{"saturday", time.Date(2026, 2, 21, 0, 0, 0, 0, time.UTC), false},
		{"sunday", time.Date(2026, 2, 22, 12, 0, 0, 0, time.UTC), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := g.Allow(tc.now)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Empty(t, reason)
			} else {
				assert.Contains(t, reason, "non-working day")
			}
		})
	}
}

func TestWeekdayGuardUsesLocation(t *testing.T) {
	t.Parallel()

	est := time.FixedZone("EST", -5*60*60)
	g := NewWeekdayGuard(weekend, est)

	// Monday 03:00 UTC is still Sunday evening in EST.
	ok, _ := g.Allow(time.Date(2026, 2, 16, 3, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestWeekdayGuardForced(t *testing.T) {
	t.Parallel()

	g := NewWeekdayGuard(weekend, time.UTC)
	saturday := time.Date(2026, 2, 21, 10, 0, 0, 0, time.UTC)

	ok, _ := g.Forced().Allow(saturday)
	assert.True(t, ok)

	ok, _ = g.Allow(saturday)
	assert.False(t, ok)
}

func TestWeekdayGuardNoSkipDays(t *testing.T) {
	t.Parallel()

	ok, _ := NewWeekdayGuard(nil, nil).Allow(time.Date(2026, 2, 21, 10, 0, 0, 0, time.UTC))
	assert.True(t, ok)
}
