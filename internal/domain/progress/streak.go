package progress

import (
	"time"

	"github.com/yanqian/eczema-insights/internal/domain/records"
	"github.com/yanqian/eczema-insights/pkg/util"
)

// CurrentStreakDays counts consecutive calendar days, walking back from
// today, that have at least one log. Several logs on one day count once and
// the walk stops at the first day without a log. Days are evaluated in
// today's location.
func CurrentStreakDays(logs []records.SymptomLog, today time.Time) int {
	if len(logs) == 0 {
		return 0
	}
	days := loggedDays(logs, today.Location())
	anchor := util.StartOfDay(today)
	streak := 0
	for {
		key := util.DayKey(anchor.AddDate(0, 0, -streak))
		if _, ok := days[key]; !ok {
			return streak
		}
		streak++
	}
}
