package progress

import (
	"time"

	"github.com/yanqian/eczema-insights/internal/domain/records"
)

// Compute derives the full progress view from raw records. Calendar days and
// months are evaluated in now's location. Inputs are not modified.
func Compute(logs []records.SymptomLog, reminders []records.Reminder, opts Options, now time.Time) DerivedMetrics {
	opts = opts.withDefaults()
	loc := now.Location()

	recent := FilterByPeriod(logs, opts.Period.Days(), now)
	streak := CurrentStreakDays(logs, now)
	improvement := ImprovementPercent(logs)
	uniqueTriggers := UniqueTriggers(logs)
	daysLogged := DaysLogged(recent, loc)

	return DerivedMetrics{
		Period:                 opts.Period,
		Timezone:               loc.String(),
		GeneratedAt:            now,
		LogCount:               len(recent),
		AverageItchiness:       AverageItchiness(recent),
		ItchinessChangePercent: ItchinessChangePercent(recent),
		CurrentStreakDays:      streak,
		DaysLoggedCount:        daysLogged,
		DaysLoggedPercent:      DaysLoggedPercent(daysLogged, opts.Period),
		FlareUpsThisMonth:      FlareUpsThisMonth(logs, opts.FlareUpThreshold, now),
		ImprovementPercent:     improvement,
		UniqueTriggers:         uniqueTriggers,
		ItchinessTrend:         ItchinessTrend(recent, loc),
		MonthlyFlareUps:        MonthlyFlareUps(logs, opts.FlareUpMonths, opts.FlareUpThreshold, now),
		TriggerBreakdown:       TriggerBreakdown(recent),
		ReminderSeries:         ReminderMonthlySeries(reminders, opts.ReminderMonths, now),
		ReminderStats:          SummarizeReminders(reminders),
		Achievements: Achievements(AchievementInput{
			Logs:               logs,
			StreakDays:         streak,
			ImprovementPercent: improvement,
			UniqueTriggers:     uniqueTriggers,
		}),
	}
}

func (o Options) withDefaults() Options {
	if !o.Period.Valid() {
		o.Period = DefaultPeriod
	}
	if o.FlareUpThreshold <= 0 {
		o.FlareUpThreshold = DefaultFlareUpThreshold
	}
	if o.FlareUpMonths <= 0 {
		o.FlareUpMonths = DefaultFlareUpMonths
	}
	if o.ReminderMonths <= 0 {
		o.ReminderMonths = DefaultReminderMonths
	}
	return o
}
