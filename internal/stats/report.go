package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/importJL/GlyphWrAIte/internal/store"
)

// Report is the downloadable progress export of one user.
type Report struct {
	User        string                `json:"user"`
	Summary     ReportSummary         `json:"summary"`
	ByDayOfWeek []DayStats            `json:"progressData"`
	ByLanguage  []LanguageShare       `json:"languageData"`
	Sessions    []store.SessionRecord `json:"sessions"`
	GeneratedAt time.Time             `json:"generatedAt"`
}

// ReportSummary is the summary block of a Report.
type ReportSummary struct {
	Summary
	TotalMinutes  int `json:"totalTime"`
	BestStreak    int `json:"bestStreak"`
	CurrentStreak int `json:"currentStreak"`
}

// BuildReport assembles a Report as of now.
func BuildReport(user string, recs []store.SessionRecord, now time.Time, loc *time.Location) Report {
	sum := Summarize(recs)
	days := ByDayOfWeek(recs, loc)
	sessions := append([]store.SessionRecord{}, recs...)
	return Report{
		User: user,
		Summary: ReportSummary{
			Summary:       sum,
			TotalMinutes:  sum.TotalMinutes(),
			BestStreak:    BestStreak(recs, loc),
			CurrentStreak: CurrentStreak(recs, now, loc),
		},
		ByDayOfWeek: days[:],
		ByLanguage:  ByLanguage(recs),
		Sessions:    sessions,
		GeneratedAt: now.UTC(),
	}
}

// JSON renders the report indented, the way it is downloaded.
func (r Report) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return data, nil
}

// Filename suggests a download name, e.g. "alice-learning-report-2026-03-02.json".
func (r Report) Filename() string {
	name := strings.Join(strings.Fields(r.User), "-")
	if name == "" {
		name = "glyphwrite"
	}
	return fmt.Sprintf("%s-learning-report-%s.json", name, r.GeneratedAt.Format(time.DateOnly))
}

// ShareText is the short progress message a learner can post.
func (r Report) ShareText() string {
	s := r.Summary
	return fmt.Sprintf("🎯 My Language Learning Progress:\n📚 %d practice sessions\n⏱️ %d minutes practiced\n📈 %d%% average score\n🔥 %d-day streak\n\nKeep learning! #LanguageLearning",
		s.TotalSessions, s.TotalMinutes, int(math.Round(s.AverageScore)), s.CurrentStreak)
}
