// Package stats rolls finalized practice sessions up into analytics.
// Every function is pure: the same records always give the same result
// and the input slice is never modified.
package stats

import (
	"math"
	"time"

	"github.com/importJL/GlyphWrAIte/internal/store"
)

// Summary holds the headline totals.
type Summary struct {
	TotalSessions        int     `json:"totalSessions"`
	TotalDurationSeconds int     `json:"totalDurationSeconds"`
	AverageScore         float64 `json:"averageScore"`
}

// TotalMinutes returns the practice time in whole minutes.
func (s Summary) TotalMinutes() int { return s.TotalDurationSeconds / 60 }

// Summarize computes the totals. An empty set averages to 0.
func Summarize(recs []store.SessionRecord) Summary {
	var s Summary
	var scoreSum int
	for _, r := range recs {
		s.TotalSessions++
		s.TotalDurationSeconds += r.DurationSeconds
		scoreSum += r.Score
	}
	if s.TotalSessions > 0 {
		s.AverageScore = float64(scoreSum) / float64(s.TotalSessions)
	}
	return s
}

// DayStats aggregates the sessions that fell on one weekday.
type DayStats struct {
	Day                    time.Weekday `json:"-"`
	Name                   string       `json:"day"`
	Sessions               int          `json:"sessions"`
	AverageScore           float64      `json:"averageScore"`
	AverageDurationSeconds float64      `json:"averageDurationSeconds"`
}

// ByDayOfWeek groups sessions by the weekday of their creation time in
// loc, Sunday first. Days without sessions are present with zero values.
func ByDayOfWeek(recs []store.SessionRecord, loc *time.Location) [7]DayStats {
	if loc == nil {
		loc = time.Local
	}
	var days [7]DayStats
	var scores, durations [7]int
	for d := range days {
		wd := time.Weekday(d)
		days[d] = DayStats{Day: wd, Name: wd.String()[:3]}
	}
	for _, r := range recs {
		d := r.CreatedAt.In(loc).Weekday()
		days[d].Sessions++
		scores[d] += r.Score
		durations[d] += r.DurationSeconds
	}
	for d := range days {
		if n := days[d].Sessions; n > 0 {
			days[d].AverageScore = float64(scores[d]) / float64(n)
			days[d].AverageDurationSeconds = float64(durations[d]) / float64(n)
		}
	}
	return days
}

// LanguageShare is the part of all sessions spent on one language.
type LanguageShare struct {
	Language string `json:"language"`
	Sessions int    `json:"sessions"`
	Percent  int    `json:"percent"`
}

// ByLanguage returns one share per language present, in order of first
// appearance. Each percentage is rounded half up on its own, so the total
// may be off 100 by one.
func ByLanguage(recs []store.SessionRecord) []LanguageShare {
	if len(recs) == 0 {
		return nil
	}
	index := make(map[string]int)
	var out []LanguageShare
	for _, r := range recs {
		i, ok := index[r.Language]
		if !ok {
			i = len(out)
			index[r.Language] = i
			out = append(out, LanguageShare{Language: r.Language})
		}
		out[i].Sessions++
	}
	total := float64(len(recs))
	for i := range out {
		out[i].Percent = int(math.Round(float64(out[i].Sessions) / total * 100))
	}
	return out
}
