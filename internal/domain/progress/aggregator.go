package progress

import (
	"math"
	"sort"
	"time"

	"github.com/yanqian/eczema-insights/internal/domain/records"
	"github.com/yanqian/eczema-insights/pkg/util"
)

// FilterByPeriod keeps logs created at or after now minus days, sorted
// oldest first. The input slice is left untouched.
func FilterByPeriod(logs []records.SymptomLog, days int, now time.Time) []records.SymptomLog {
	cutoff := now.AddDate(0, 0, -days)
	out := make([]records.SymptomLog, 0, len(logs))
	for _, log := range logs {
		if !log.CreatedAt.Before(cutoff) {
			out = append(out, log)
		}
	}
	sortAscending(out)
	return out
}

// AverageItchiness is the mean level rounded to one decimal, 0 when empty.
func AverageItchiness(logs []records.SymptomLog) float64 {
	if len(logs) == 0 {
		return 0
	}
	return math.Round(meanLevel(logs)*10) / 10
}

// ItchinessChangePercent compares the mean of the later half of logs with
// the earlier half. logs must be in chronological order. Returns nil when
// there are fewer than two logs or the earlier mean is zero.
func ItchinessChangePercent(logs []records.SymptomLog) *int {
	if len(logs) < 2 {
		return nil
	}
	mid := len(logs) / 2
	first := meanLevel(logs[:mid])
	second := meanLevel(logs[mid:])
	if first == 0 {
		return nil
	}
	change := int(math.Round((second - first) / first * 100))
	return &change
}

// ImprovementPercent is the relative drop in mean itchiness from the earlier
// half of all logs to the later half. Positive means improving.
func ImprovementPercent(logs []records.SymptomLog) int {
	if len(logs) < 2 {
		return 0
	}
	sorted := append([]records.SymptomLog(nil), logs...)
	sortAscending(sorted)
	mid := len(sorted) / 2
	first := meanLevel(sorted[:mid])
	second := meanLevel(sorted[mid:])
	if first == 0 {
		return 0
	}
	return roundHalfUp((first - second) / first * 100)
}

// ItchinessTrend maps chronologically ordered logs to chart points, using
// calendar dates in loc.
func ItchinessTrend(logs []records.SymptomLog, loc *time.Location) []TrendPoint {
	points := make([]TrendPoint, 0, len(logs))
	for _, log := range logs {
		points = append(points, TrendPoint{
			Date:  util.DayKey(log.CreatedAt.In(loc)),
			Level: log.ItchinessLevel,
		})
	}
	return points
}

// DaysLogged counts distinct calendar days in loc with at least one log.
func DaysLogged(logs []records.SymptomLog, loc *time.Location) int {
	return len(loggedDays(logs, loc))
}

// DaysLoggedPercent expresses days as a share of the period length.
func DaysLoggedPercent(days int, period Period) int {
	if period.Days() <= 0 {
		return 0
	}
	return roundHalfUp(float64(days) / float64(period.Days()) * 100)
}

// FlareUpsThisMonth counts logs at or above threshold since the start of
// now's calendar month.
func FlareUpsThisMonth(logs []records.SymptomLog, threshold int, now time.Time) int {
	if threshold <= 0 {
		threshold = DefaultFlareUpThreshold
	}
	start := util.StartOfMonth(now)
	count := 0
	for _, log := range logs {
		if log.ItchinessLevel >= threshold && !log.CreatedAt.Before(start) {
			count++
		}
	}
	return count
}

func loggedDays(logs []records.SymptomLog, loc *time.Location) map[string]struct{} {
	days := make(map[string]struct{}, len(logs))
	for _, log := range logs {
		days[util.DayKey(log.CreatedAt.In(loc))] = struct{}{}
	}
	return days
}

func meanLevel(logs []records.SymptomLog) float64 {
	if len(logs) == 0 {
		return 0
	}
	sum := 0
	for _, log := range logs {
		sum += log.ItchinessLevel
	}
	return float64(sum) / float64(len(logs))
}

func sortAscending(logs []records.SymptomLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].CreatedAt.Before(logs[j].CreatedAt)
	})
}

// roundHalfUp rounds .5 towards positive infinity, matching the rounding
// the dashboards have always shown.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
