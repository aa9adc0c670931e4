package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/eczema-insights/internal/domain/records"
)

func computeFixture() []records.SymptomLog {
	return []records.SymptomLog{
		logAt(8, fixedNow.Add(-2*time.Hour), "stress, dry air"),
		logAt(7, daysAgo(1), "stress"),
		logAt(4, daysAgo(3), "pollen"),
		logAt(3, daysAgo(20), ""),
		logAt(9, daysAgo(60), "dairy"),
	}
}

func TestComputeDefaults(t *testing.T) {
	logs := computeFixture()
	reminders := reminderFixture()
	original := append([]records.SymptomLog(nil), logs...)

	got := Compute(logs, reminders, Options{}, fixedNow)

	require.Equal(t, PeriodMonth, got.Period)
	require.Equal(t, "UTC", got.Timezone)
	require.Equal(t, fixedNow, got.GeneratedAt)
	require.Equal(t, 4, got.LogCount)
	require.Equal(t, 5.5, got.AverageItchiness)
	require.NotNil(t, got.ItchinessChangePercent)
	require.Equal(t, 114, *got.ItchinessChangePercent)
	require.Equal(t, 2, got.CurrentStreakDays)
	require.Equal(t, 4, got.DaysLoggedCount)
	require.Equal(t, 13, got.DaysLoggedPercent)
	require.Equal(t, 2, got.FlareUpsThisMonth)
	require.Equal(t, 4, got.UniqueTriggers)
	require.Len(t, got.ItchinessTrend, 4)
	require.Equal(t, 3, got.ItchinessTrend[0].Level)
	require.Len(t, got.MonthlyFlareUps, DefaultFlareUpMonths)
	require.Equal(t, 1, got.MonthlyFlareUps[2].Count, "May flare-up comes from outside the period")
	require.Len(t, got.ReminderSeries, DefaultReminderMonths)
	require.Equal(t, 5, got.ReminderStats.Total)
	require.Len(t, got.Achievements, 4)
	require.Equal(t, "Stress", got.TriggerBreakdown[0].Category)

	require.Equal(t, original, logs)
}

func TestComputeIsIdempotent(t *testing.T) {
	logs := computeFixture()
	reminders := reminderFixture()
	opts := Options{Period: PeriodWeek}

	first := Compute(logs, reminders, opts, fixedNow)
	second := Compute(logs, reminders, opts, fixedNow)
	require.Equal(t, first, second)
	require.Equal(t, 3, first.LogCount)
}

func TestComputeEmpty(t *testing.T) {
	got := Compute(nil, nil, Options{Period: PeriodQuarter}, fixedNow)
	require.Zero(t, got.LogCount)
	require.Zero(t, got.AverageItchiness)
	require.Nil(t, got.ItchinessChangePercent)
	require.Zero(t, got.CurrentStreakDays)
	require.Empty(t, got.TriggerBreakdown)
	require.Len(t, got.MonthlyFlareUps, DefaultFlareUpMonths)
	require.Len(t, got.ReminderSeries, DefaultReminderMonths)
}
