// Package streak computes consecutive-day completion streaks.
package streak

import (
	"sort"
	"time"
)

const day = 24 * time.Hour

// Stats holds the result of a streak computation
type Stats struct {
	Current int
	Longest int
	Total   int
	Last    time.Time
}

// Compute returns streak statistics for a set of completion days as of asOf.
//
// Dates must be calendar days at UTC midnight (see entities.ParseDate);
// asOf is truncated to its calendar day. Duplicates are ignored. The current
// streak is the run ending at the most recent completion, and drops to zero
// once more than one day separates that completion from asOf.
func Compute(dates []time.Time, asOf time.Time) Stats {
	if len(dates) == 0 {
		return Stats{}
	}

	days := unique(dates)
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	run, longest := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == day {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	last := days[len(days)-1]
	current := run
	if calendarDay(asOf).Sub(last) > day {
		current = 0
	}

	return Stats{
		Current: current,
		Longest: longest,
		Total:   len(days),
		Last:    last,
	}
}

func unique(dates []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		d = calendarDay(d)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	return days
}

// calendarDay maps t to UTC midnight of its own calendar date.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
