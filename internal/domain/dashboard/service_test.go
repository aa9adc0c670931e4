package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/eczema-insights/internal/domain/records"
	apperrors "github.com/yanqian/eczema-insights/pkg/errors"
)

var testNow = time.Date(2024, time.July, 15, 12, 0, 0, 0, time.UTC)

type stubLoader struct {
	snapshot records.Snapshot
	err      error
}

func (s stubLoader) Load(context.Context, records.Principal) (records.Snapshot, error) {
	return s.snapshot, s.err
}

func newTestService(loader snapshotLoader) *service {
	return &service{
		loader: loader,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    func() time.Time { return testNow },
	}
}

func snapshotFixture() records.Snapshot {
	return records.Snapshot{
		UserID: "u1",
		Logs: []records.SymptomLog{
			{ID: "l1", ItchinessLevel: 8, AffectedArea: "Elbows", CreatedAt: time.Date(2024, time.June, 20, 9, 0, 0, 0, time.UTC)},
			{ID: "l2", ItchinessLevel: 8, CreatedAt: time.Date(2024, time.June, 25, 9, 0, 0, 0, time.UTC)},
			{ID: "l3", ItchinessLevel: 4, AffectedArea: "Hands", CreatedAt: testNow.Add(-26 * time.Hour)},
			{ID: "l4", ItchinessLevel: 2, AffectedArea: "Neck", CreatedAt: testNow.Add(-30 * time.Minute)},
		},
		Reminders: []records.Reminder{{ID: "r1"}, {ID: "r2"}},
		Scans: []records.Scan{
			{ID: "s1", Prediction: records.PredictionEczema, Severity: "Moderate", Confidence: 0.876, CreatedAt: testNow.Add(-2 * time.Hour)},
			{ID: "s2", Eczema: true, Confidence: 0.5, CreatedAt: testNow.Add(-10 * 24 * time.Hour)},
			{ID: "s3", Prediction: records.PredictionUncertain, Confidence: 0.42, CreatedAt: testNow.Add(-3 * 24 * time.Hour)},
			{ID: "s4", Prediction: records.PredictionNormal, Confidence: 0.99, CreatedAt: testNow.Add(-20 * 24 * time.Hour)},
		},
		Consultations: []records.Consultation{{ID: "c1", Status: "pending"}},
	}
}

func TestSummarize(t *testing.T) {
	stats := Summarize(snapshotFixture(), testNow)
	require.Equal(t, Stats{
		TotalScans:          4,
		TotalLogs:           4,
		TotalReminders:      2,
		TotalConsultations:  1,
		EczemaDetectedCount: 2,
		DayStreak:           2,
		ImprovementPercent:  63,
		LogsThisMonth:       2,
	}, stats)
}

func TestSummarizeClampsWorsening(t *testing.T) {
	snap := records.Snapshot{Logs: []records.SymptomLog{
		{ID: "a", ItchinessLevel: 2, CreatedAt: testNow.Add(-48 * time.Hour)},
		{ID: "b", ItchinessLevel: 9, CreatedAt: testNow.Add(-time.Hour)},
	}}
	require.Zero(t, Summarize(snap, testNow).ImprovementPercent)
}

func TestRecentActivity(t *testing.T) {
	svc := newTestService(stubLoader{snapshot: snapshotFixture()})

	items, err := svc.RecentActivity(context.Background(), records.Principal{UserID: "u1"}, Request{})
	require.NoError(t, err)
	require.Len(t, items, MaxActivityItems)

	require.Equal(t, "scan-s1", items[0].ID)
	require.Equal(t, StatusWarning, items[0].Status)
	require.Equal(t, "Moderate detected - 88% confidence", items[0].Description)
	require.Equal(t, "2h ago", items[0].Time)

	require.Equal(t, "scan-s3", items[1].ID)
	require.Equal(t, StatusInfo, items[1].Status)
	require.Equal(t, "Uncertain result - 42% confidence. Consult a dermatologist.", items[1].Description)

	require.Equal(t, "scan-s2", items[2].ID)
	require.Equal(t, "Eczema detected - 50% confidence", items[2].Description)
	require.Equal(t, "Jul 5, 2024", items[2].Time)

	require.Equal(t, "log-l4", items[3].ID)
	require.Equal(t, "Symptom logged", items[3].Title)
	require.Equal(t, "Itchiness level: 2/10 - Neck", items[3].Description)
	require.Equal(t, "30m ago", items[3].Time)

	require.Equal(t, "log-l3", items[4].ID)
	require.Equal(t, "1d ago", items[4].Time)
}

func TestRecentActivityLimit(t *testing.T) {
	svc := newTestService(stubLoader{snapshot: snapshotFixture()})

	items, err := svc.RecentActivity(context.Background(), records.Principal{UserID: "u1"}, Request{Limit: 2})
	require.NoError(t, err)
	require.Len(t, items, 2)

	_, err = svc.RecentActivity(context.Background(), records.Principal{UserID: "u1"}, Request{Limit: -1})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestBuildActivityFallbacks(t *testing.T) {
	items := BuildActivity(
		[]records.Scan{{ID: "n1", Confidence: 0.9, CreatedAt: testNow}},
		[]records.SymptomLog{{ID: "", ItchinessLevel: 3}, {ID: "x", ItchinessLevel: 3, CreatedAt: testNow}},
		0, testNow,
	)
	require.Len(t, items, 2)
	require.Equal(t, StatusSuccess, items[0].Status)
	require.Equal(t, "No eczema detected - 90% confidence", items[0].Description)
	require.Equal(t, "Just now", items[0].Time)
	require.Equal(t, "Itchiness level: 3/10 - Unknown area", items[1].Description)
}

func TestTimeAgo(t *testing.T) {
	require.Equal(t, "Just now", TimeAgo(testNow.Add(-30*time.Second), testNow))
	require.Equal(t, "1m ago", TimeAgo(testNow.Add(-time.Minute), testNow))
	require.Equal(t, "23h ago", TimeAgo(testNow.Add(-23*time.Hour), testNow))
	require.Equal(t, "6d ago", TimeAgo(testNow.Add(-6*24*time.Hour), testNow))
	require.Equal(t, "Jul 8, 2024", TimeAgo(testNow.Add(-7*24*time.Hour), testNow))
}

func TestStatsErrors(t *testing.T) {
	svc := newTestService(stubLoader{err: apperrors.Wrap(apperrors.CodeSourceError, "failed to load records", errors.New("down"))})
	_, err := svc.Stats(context.Background(), records.Principal{UserID: "u1"}, Request{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeSourceError))

	_, err = svc.Stats(context.Background(), records.Principal{UserID: "u1"}, Request{Timezone: "Not/AZone"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}
