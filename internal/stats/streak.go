package stats

import (
	"sort"
	"time"

	"github.com/importJL/GlyphWrAIte/internal/store"
)

type day struct {
	y int
	m time.Month
	d int
}

func dayOf(t time.Time) day {
	y, m, d := t.Date()
	return day{y, m, d}
}

func (d day) next() day {
	return dayOf(time.Date(d.y, d.m, d.d+1, 12, 0, 0, 0, time.UTC))
}

func (d day) before(o day) bool {
	if d.y != o.y {
		return d.y < o.y
	}
	if d.m != o.m {
		return d.m < o.m
	}
	return d.d < o.d
}

// practiceDays returns the distinct local days with a session, ascending.
func practiceDays(recs []store.SessionRecord, loc *time.Location) []day {
	if loc == nil {
		loc = time.Local
	}
	seen := make(map[day]bool)
	var days []day
	for _, r := range recs {
		d := dayOf(r.CreatedAt.In(loc))
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].before(days[j]) })
	return days
}

// BestStreak returns the longest run of consecutive local days with at
// least one session.
func BestStreak(recs []store.SessionRecord, loc *time.Location) int {
	days := practiceDays(recs, loc)
	best, run := 0, 0
	for i, d := range days {
		if i > 0 && days[i-1].next() == d {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
	}
	return best
}

// CurrentStreak returns the run of consecutive days ending today, or
// yesterday when there is no session yet today.
func CurrentStreak(recs []store.SessionRecord, now time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	days := practiceDays(recs, loc)
	if len(days) == 0 {
		return 0
	}
	today := dayOf(now.In(loc))
	yesterday := dayOf(time.Date(today.y, today.m, today.d-1, 12, 0, 0, 0, time.UTC))
	last := days[len(days)-1]
	if last != today && last != yesterday {
		return 0
	}
	run := 1
	for i := len(days) - 1; i > 0; i-- {
		if days[i-1].next() != days[i] {
			break
		}
		run++
	}
	return run
}
