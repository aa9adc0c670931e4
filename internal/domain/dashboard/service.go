package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yanqian/eczema-insights/internal/domain/progress"
	"github.com/yanqian/eczema-insights/internal/domain/records"
	apperrors "github.com/yanqian/eczema-insights/pkg/errors"
	"github.com/yanqian/eczema-insights/pkg/util"
)

// Service exposes the home screen summary.
type Service interface {
	Stats(ctx context.Context, p records.Principal, req Request) (Stats, error)
	RecentActivity(ctx context.Context, p records.Principal, req Request) ([]Activity, error)
}

type snapshotLoader interface {
	Load(ctx context.Context, p records.Principal) (records.Snapshot, error)
}

type service struct {
	cfg    Config
	loader snapshotLoader
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the dashboard domain.
func NewService(cfg Config, loader *records.Loader, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		loader: loader,
		logger: logger.With("component", "dashboard.service"),
		now:    util.NowUTC,
	}
}

func (s *service) Stats(ctx context.Context, p records.Principal, req Request) (Stats, error) {
	now, err := s.localNow(req.Timezone)
	if err != nil {
		return Stats{}, err
	}
	snap, err := s.loader.Load(ctx, p)
	if err != nil {
		return Stats{}, err
	}
	return Summarize(snap, now), nil
}

func (s *service) RecentActivity(ctx context.Context, p records.Principal, req Request) ([]Activity, error) {
	if req.Limit < 0 {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "limit cannot be negative", nil)
	}
	now, err := s.localNow(req.Timezone)
	if err != nil {
		return nil, err
	}
	snap, err := s.loader.Load(ctx, p)
	if err != nil {
		return nil, err
	}
	items := BuildActivity(snap.Scans, snap.Logs, req.Limit, now)
	s.logger.Debug("activity built", "user_id", p.UserID, "items", len(items))
	return items, nil
}

// Summarize computes the dashboard counters from a snapshot.
func Summarize(snap records.Snapshot, now time.Time) Stats {
	detected := 0
	for _, scan := range snap.Scans {
		if scan.EffectivePrediction() == records.PredictionEczema {
			detected++
		}
	}

	monthStart := util.StartOfMonth(now)
	thisMonth := 0
	for _, log := range snap.Logs {
		if !log.CreatedAt.IsZero() && !log.CreatedAt.Before(monthStart) {
			thisMonth++
		}
	}

	improvement := progress.ImprovementPercent(snap.Logs)
	if improvement < 0 {
		improvement = 0
	}

	return Stats{
		TotalScans:          len(snap.Scans),
		TotalLogs:           len(snap.Logs),
		TotalReminders:      len(snap.Reminders),
		TotalConsultations:  len(snap.Consultations),
		EczemaDetectedCount: detected,
		DayStreak:           progress.CurrentStreakDays(snap.Logs, now),
		ImprovementPercent:  improvement,
		LogsThisMonth:       thisMonth,
	}
}

func (s *service) localNow(requested string) (time.Time, error) {
	name := requested
	if name == "" {
		name = s.cfg.DefaultTimezone
	}
	loc, err := util.LoadLocation(name, time.UTC)
	if err != nil {
		if requested == "" {
			s.logger.Warn("invalid default timezone, using UTC", "timezone", name, "error", err)
			return s.now().UTC(), nil
		}
		return time.Time{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unknown timezone %q", requested), err)
	}
	return s.now().In(loc), nil
}
