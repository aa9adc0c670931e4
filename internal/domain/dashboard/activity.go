package dashboard

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/yanqian/eczema-insights/internal/domain/records"
)

// BuildActivity lists the latest scans followed by the latest symptom logs,
// at most limit items in total.
func BuildActivity(scans []records.Scan, logs []records.SymptomLog, limit int, now time.Time) []Activity {
	if limit <= 0 || limit > MaxActivityItems {
		limit = MaxActivityItems
	}

	scans = append([]records.Scan(nil), scans...)
	sort.SliceStable(scans, func(i, j int) bool { return scans[i].CreatedAt.After(scans[j].CreatedAt) })
	logs = append([]records.SymptomLog(nil), logs...)
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].CreatedAt.After(logs[j].CreatedAt) })

	items := make([]Activity, 0, 2*perKindActivity)
	for _, scan := range firstN(scans, perKindActivity) {
		if scan.ID == "" {
			continue
		}
		items = append(items, scanActivity(scan, now))
	}
	for _, log := range firstN(logs, perKindActivity) {
		if log.ID == "" {
			continue
		}
		items = append(items, logActivity(log, now))
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func scanActivity(scan records.Scan, now time.Time) Activity {
	confidence := int(math.Floor(scan.Confidence*100 + 0.5))

	var (
		description string
		status      ActivityStatus
	)
	switch scan.EffectivePrediction() {
	case records.PredictionUncertain:
		description = fmt.Sprintf("Uncertain result - %d%% confidence. Consult a dermatologist.", confidence)
		status = StatusInfo
	case records.PredictionEczema:
		severity := strings.TrimSpace(scan.Severity)
		if severity == "" {
			severity = "Eczema"
		}
		description = fmt.Sprintf("%s detected - %d%% confidence", severity, confidence)
		status = StatusWarning
	default:
		description = fmt.Sprintf("No eczema detected - %d%% confidence", confidence)
		status = StatusSuccess
	}

	return Activity{
		ID:          "scan-" + scan.ID,
		Type:        ActivityScan,
		Title:       "Skin scan completed",
		Description: description,
		Time:        TimeAgo(scan.CreatedAt, now),
		Status:      status,
		CreatedAt:   scan.CreatedAt,
	}
}

func logActivity(log records.SymptomLog, now time.Time) Activity {
	area := strings.TrimSpace(log.AffectedArea)
	if area == "" {
		area = "Unknown area"
	}
	return Activity{
		ID:          "log-" + log.ID,
		Type:        ActivityLog,
		Title:       "Symptom logged",
		Description: fmt.Sprintf("Itchiness level: %d/10 - %s", log.ItchinessLevel, area),
		Time:        TimeAgo(log.CreatedAt, now),
		Status:      StatusInfo,
		CreatedAt:   log.CreatedAt,
	}
}

// TimeAgo renders the age of t relative to now as a short label. Anything a
// week or older is shown as a date in now's location.
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "Just now"
	}
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff/(24*time.Hour)))
	default:
		return t.In(now.Location()).Format("Jan 2, 2006")
	}
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
