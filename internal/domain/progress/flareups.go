package progress

import (
	"time"

	"github.com/yanqian/eczema-insights/internal/domain/records"
	"github.com/yanqian/eczema-insights/pkg/util"
)

// MonthlyFlareUps counts logs at or above threshold for each of the trailing
// monthsBack calendar months, current month included. The series is ordered
// oldest to newest and always has monthsBack entries.
func MonthlyFlareUps(logs []records.SymptomLog, monthsBack, threshold int, now time.Time) []MonthlyCount {
	if monthsBack <= 0 {
		return []MonthlyCount{}
	}
	if threshold <= 0 {
		threshold = DefaultFlareUpThreshold
	}

	series := make([]MonthlyCount, monthsBack)
	index := make(map[string]int, monthsBack)
	for i := range series {
		month := util.AddMonths(now, i-(monthsBack-1))
		key := util.MonthKey(month)
		series[i] = MonthlyCount{Month: month.Format("Jan"), Key: key}
		index[key] = i
	}

	loc := now.Location()
	for _, log := range logs {
		if log.ItchinessLevel < threshold {
			continue
		}
		if i, ok := index[util.MonthKey(log.CreatedAt.In(loc))]; ok {
			series[i].Count++
		}
	}
	return series
}
