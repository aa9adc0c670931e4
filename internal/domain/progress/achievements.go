package progress

import (
	"strings"
	"time"

	"github.com/yanqian/eczema-insights/internal/domain/records"
)

// Achievement identifiers.
const (
	AchievementWeekStreak      = "week-streak"
	AchievementImprovement     = "improvement-master"
	AchievementConsistency     = "consistency-champion"
	AchievementTriggerDetector = "trigger-detective"
)

// AchievementInput carries the already computed values Achievements needs.
type AchievementInput struct {
	Logs               []records.SymptomLog
	StreakDays         int
	ImprovementPercent int
	UniqueTriggers     int
}

// Achievements evaluates the milestone badges. Progress is capped at the
// target and never negative. EarnedAt is the time of the latest log that
// contributed, set only for earned badges.
func Achievements(in AchievementInput) []Achievement {
	lastLog := latestLog(in.Logs, func(records.SymptomLog) bool { return true })
	lastTriggerLog := latestLog(in.Logs, func(l records.SymptomLog) bool {
		return strings.TrimSpace(l.PossibleTriggers) != ""
	})

	return []Achievement{
		badge(AchievementWeekStreak, "7-Day Streak", "Log symptoms 7 days in a row", in.StreakDays, 7, lastLog),
		badge(AchievementImprovement, "Improvement Master", "Reduce itchiness by 50%", in.ImprovementPercent, 50, lastLog),
		badge(AchievementConsistency, "Consistency Champion", "Log symptoms 30 days in a row", in.StreakDays, 30, lastLog),
		badge(AchievementTriggerDetector, "Trigger Detective", "Identify 5 different triggers", in.UniqueTriggers, 5, lastTriggerLog),
	}
}

func badge(id, title, description string, value, target int, last *time.Time) Achievement {
	progress := value
	if progress > target {
		progress = target
	}
	if progress < 0 {
		progress = 0
	}
	a := Achievement{
		ID:          id,
		Title:       title,
		Description: description,
		Earned:      value >= target,
		Progress:    progress,
		Target:      target,
	}
	if a.Earned && last != nil {
		at := *last
		a.EarnedAt = &at
	}
	return a
}

func latestLog(logs []records.SymptomLog, keep func(records.SymptomLog) bool) *time.Time {
	var latest *time.Time
	for i := range logs {
		if !keep(logs[i]) {
			continue
		}
		if latest == nil || logs[i].CreatedAt.After(*latest) {
			t := logs[i].CreatedAt
			latest = &t
		}
	}
	return latest
}
