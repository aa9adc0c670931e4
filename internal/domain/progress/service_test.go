package progress

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/eczema-insights/internal/domain/records"
	apperrors "github.com/yanqian/eczema-insights/pkg/errors"
)

type stubLoader struct {
	snapshot records.Snapshot
	err      error
	calls    int
}

func (s *stubLoader) Load(_ context.Context, p records.Principal) (records.Snapshot, error) {
	s.calls++
	if s.err != nil {
		return records.Snapshot{}, s.err
	}
	snap := s.snapshot
	snap.UserID = p.UserID
	return snap, nil
}

func newTestService(cfg Config, loader snapshotLoader) *service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// 2024-07-15 01:00 UTC is 09:00 the same day in Singapore.
	now := func() time.Time { return time.Date(2024, time.July, 15, 1, 0, 0, 0, time.UTC) }
	return newService(cfg, loader, logger, now)
}

func TestServiceMetricsUsesRequestTimezone(t *testing.T) {
	loader := &stubLoader{snapshot: records.Snapshot{
		Logs: []records.SymptomLog{
			// 2024-07-15 07:00 in Singapore, still 2024-07-14 in UTC.
			logAt(8, time.Date(2024, time.July, 14, 23, 0, 0, 0, time.UTC), "stress"),
		},
	}}
	svc := newTestService(Config{}, loader)

	got, err := svc.Metrics(context.Background(), records.Principal{UserID: "u1"}, Request{Period: 7, Timezone: "Asia/Singapore"})
	require.NoError(t, err)
	require.Equal(t, 1, loader.calls)
	require.Equal(t, PeriodWeek, got.Period)
	require.Equal(t, "Asia/Singapore", got.Timezone)
	require.Equal(t, 1, got.CurrentStreakDays)
	require.Equal(t, "2024-07-15", got.ItchinessTrend[0].Date)
}

func TestServiceMetricsDefaults(t *testing.T) {
	loader := &stubLoader{}
	svc := newTestService(Config{DefaultPeriod: PeriodQuarter, DefaultTimezone: "Europe/London"}, loader)

	got, err := svc.Metrics(context.Background(), records.Principal{UserID: "u1"}, Request{})
	require.NoError(t, err)
	require.Equal(t, PeriodQuarter, got.Period)
	require.Equal(t, "Europe/London", got.Timezone)
}

func TestServiceMetricsBadDefaultTimezoneFallsBackToUTC(t *testing.T) {
	svc := newTestService(Config{DefaultTimezone: "Nowhere/Land"}, &stubLoader{})

	got, err := svc.Metrics(context.Background(), records.Principal{UserID: "u1"}, Request{})
	require.NoError(t, err)
	require.Equal(t, "UTC", got.Timezone)
	require.Equal(t, PeriodMonth, got.Period)
}

func TestServiceMetricsRejectsInvalidInput(t *testing.T) {
	loader := &stubLoader{}
	svc := newTestService(Config{}, loader)

	_, err := svc.Metrics(context.Background(), records.Principal{UserID: "u1"}, Request{Period: 45})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.Metrics(context.Background(), records.Principal{UserID: "u1"}, Request{Timezone: "Mars/Olympus"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	require.Zero(t, loader.calls)
}

func TestServiceMetricsPropagatesLoaderError(t *testing.T) {
	loader := &stubLoader{err: apperrors.Wrap(apperrors.CodeSourceError, "failed to load records", errors.New("boom"))}
	svc := newTestService(Config{}, loader)

	_, err := svc.Metrics(context.Background(), records.Principal{UserID: "u1"}, Request{})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeSourceError))
}
