package progress

import (
	"time"

	"github.com/yanqian/eczema-insights/internal/domain/records"
	"github.com/yanqian/eczema-insights/pkg/util"
)

// ReminderMonthlySeries groups reminders by creation month over the trailing
// monthsBack months ending at now's month, oldest first and zero-filled.
// Reminders without a creation time are skipped.
func ReminderMonthlySeries(reminders []records.Reminder, monthsBack int, now time.Time) []ReminderMonth {
	if monthsBack <= 0 {
		return []ReminderMonth{}
	}
	series := make([]ReminderMonth, monthsBack)
	index := make(map[string]int, monthsBack)
	for i := range series {
		month := util.AddMonths(now, i-(monthsBack-1))
		key := util.MonthKey(month)
		series[i] = ReminderMonth{Month: month.Format("Jan"), Key: key}
		index[key] = i
	}

	loc := now.Location()
	for _, r := range reminders {
		if r.CreatedAt.IsZero() {
			continue
		}
		i, ok := index[util.MonthKey(r.CreatedAt.In(loc))]
		if !ok {
			continue
		}
		series[i].Total++
		if r.IsActive {
			series[i].Active++
		}
	}
	for i := range series {
		series[i].Inactive = series[i].Total - series[i].Active
	}
	return series
}

// SummarizeReminders totals reminders by active state and type.
func SummarizeReminders(reminders []records.Reminder) ReminderStats {
	var stats ReminderStats
	for _, r := range reminders {
		stats.Total++
		if r.IsActive {
			stats.Active++
		}
		switch r.Type {
		case records.ReminderMedication:
			stats.ByType.Medication++
		case records.ReminderAppointment:
			stats.ByType.Appointment++
		case records.ReminderCustom:
			stats.ByType.Custom++
		}
	}
	stats.Inactive = stats.Total - stats.Active
	return stats
}
