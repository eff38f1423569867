package scheduler

import (
	"fmt"
	"time"

	"AirworthinessDigest/internal/ports"
)

// WeekdayGuard lets scheduled runs through only on working days.
type WeekdayGuard struct {
	skip  map[time.Weekday]bool
	loc   *time.Location
	force bool
}

var _ ports.RunGuard = (*WeekdayGuard)(nil)

// NewWeekdayGuard builds a guard that rejects skipDays as observed in loc.
func NewWeekdayGuard(skipDays []time.Weekday, loc *time.Location) *WeekdayGuard {
	if loc == nil {
		loc = time.Local
	}
	skip := make(map[time.Weekday]bool, len(skipDays))
	for _, d := range skipDays {
		skip[d] = true
	}
	return &WeekdayGuard{skip: skip, loc: loc}
}

// Forced returns a copy that allows every day.
func (g *WeekdayGuard) Forced() *WeekdayGuard {
	clone := *g
	clone.force = true
	return &clone
}

// Allow reports whether a run may proceed at now, with the reason when it may not.
func (g *WeekdayGuard) Allow(now time.Time) (bool, string) {
	if g.force {
		return true, ""
	}
	day := now.In(g.loc).Weekday()
	if g.skip[day] {
		return false, fmt.Sprintf("%s is a non-working day", day)
	}
	return true, ""
}
