package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/eczema-insights/internal/domain/records"
)

var fixedNow = time.Date(2024, time.July, 15, 12, 0, 0, 0, time.UTC)

func logAt(level int, at time.Time, triggers string) records.SymptomLog {
	return records.SymptomLog{
		ID:               at.Format(time.RFC3339Nano),
		ItchinessLevel:   level,
		PossibleTriggers: triggers,
		CreatedAt:        at,
	}
}

func daysAgo(n int) time.Time {
	return fixedNow.AddDate(0, 0, -n)
}

func TestFilterByPeriod(t *testing.T) {
	logs := []records.SymptomLog{
		logAt(5, daysAgo(1), ""),
		logAt(6, daysAgo(10), ""),
		logAt(7, daysAgo(7), ""),
		logAt(8, daysAgo(40), ""),
	}
	original := append([]records.SymptomLog(nil), logs...)

	got := FilterByPeriod(logs, 7, fixedNow)
	require.Len(t, got, 2)
	require.Equal(t, 7, got[0].ItchinessLevel, "window start is inclusive and output is ascending")
	require.Equal(t, 5, got[1].ItchinessLevel)
	require.Equal(t, original, logs)

	require.Empty(t, FilterByPeriod(nil, 30, fixedNow))
}

func TestAverageItchiness(t *testing.T) {
	require.Equal(t, 0.0, AverageItchiness(nil))

	logs := []records.SymptomLog{
		logAt(3, daysAgo(3), ""),
		logAt(4, daysAgo(2), ""),
		logAt(4, daysAgo(1), ""),
	}
	avg := AverageItchiness(logs)
	require.Equal(t, 3.7, avg)
	require.GreaterOrEqual(t, avg, 3.0)
	require.LessOrEqual(t, avg, 4.0)
}

func TestItchinessChangePercent(t *testing.T) {
	require.Nil(t, ItchinessChangePercent(nil))
	require.Nil(t, ItchinessChangePercent([]records.SymptomLog{logAt(5, daysAgo(1), "")}))

	rising := []records.SymptomLog{
		logAt(4, daysAgo(4), ""),
		logAt(4, daysAgo(3), ""),
		logAt(6, daysAgo(2), ""),
		logAt(6, daysAgo(1), ""),
	}
	change := ItchinessChangePercent(rising)
	require.NotNil(t, change)
	require.Equal(t, 50, *change)

	odd := []records.SymptomLog{
		logAt(2, daysAgo(3), ""),
		logAt(4, daysAgo(2), ""),
		logAt(6, daysAgo(1), ""),
	}
	change = ItchinessChangePercent(odd)
	require.NotNil(t, change)
	require.Equal(t, 150, *change)

	zeroFirst := []records.SymptomLog{
		logAt(0, daysAgo(3), ""),
		logAt(5, daysAgo(2), ""),
		logAt(5, daysAgo(1), ""),
	}
	require.Nil(t, ItchinessChangePercent(zeroFirst))
}

func TestImprovementPercent(t *testing.T) {
	require.Equal(t, 0, ImprovementPercent(nil))

	unordered := []records.SymptomLog{
		logAt(4, daysAgo(1), ""),
		logAt(8, daysAgo(4), ""),
		logAt(4, daysAgo(2), ""),
		logAt(8, daysAgo(3), ""),
	}
	require.Equal(t, 50, ImprovementPercent(unordered))

	worsening := []records.SymptomLog{
		logAt(4, daysAgo(2), ""),
		logAt(6, daysAgo(1), ""),
	}
	require.Equal(t, -50, ImprovementPercent(worsening))
}

func TestItchinessTrendUsesLocation(t *testing.T) {
	sgt := time.FixedZone("SGT", 8*60*60)
	logs := []records.SymptomLog{
		logAt(6, time.Date(2024, time.July, 14, 20, 0, 0, 0, time.UTC), ""),
	}
	points := ItchinessTrend(logs, sgt)
	require.Equal(t, []TrendPoint{{Date: "2024-07-15", Level: 6}}, points)
}

func TestDaysLogged(t *testing.T) {
	logs := []records.SymptomLog{
		logAt(5, daysAgo(1), ""),
		logAt(6, daysAgo(1).Add(time.Hour), ""),
		logAt(7, daysAgo(2), ""),
	}
	require.Equal(t, 2, DaysLogged(logs, time.UTC))
	require.Equal(t, 50, DaysLoggedPercent(15, PeriodMonth))
	require.Equal(t, 14, DaysLoggedPercent(1, PeriodWeek))
	require.Equal(t, 0, DaysLoggedPercent(3, Period(0)))
}

func TestFlareUpsThisMonth(t *testing.T) {
	thisMonth := []records.SymptomLog{
		logAt(7, time.Date(2024, time.July, 2, 9, 0, 0, 0, time.UTC), ""),
		logAt(8, time.Date(2024, time.July, 10, 9, 0, 0, 0, time.UTC), ""),
	}
	require.Equal(t, 2, FlareUpsThisMonth(thisMonth, 7, fixedNow))

	mixed := append(thisMonth,
		logAt(6, time.Date(2024, time.July, 11, 9, 0, 0, 0, time.UTC), ""),
		logAt(9, time.Date(2024, time.June, 30, 23, 0, 0, 0, time.UTC), ""),
	)
	require.Equal(t, 2, FlareUpsThisMonth(mixed, 7, fixedNow))
	require.Equal(t, 2, FlareUpsThisMonth(mixed, 0, fixedNow), "zero threshold falls back to the default")
}

func TestRoundHalfUp(t *testing.T) {
	require.Equal(t, 3, roundHalfUp(2.5))
	require.Equal(t, -2, roundHalfUp(-2.5))
	require.Equal(t, 17, roundHalfUp(100.0/6))
}
