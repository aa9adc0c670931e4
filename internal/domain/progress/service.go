package progress

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yanqian/eczema-insights/internal/domain/records"
	apperrors "github.com/yanqian/eczema-insights/pkg/errors"
	"github.com/yanqian/eczema-insights/pkg/util"
)

// Service exposes the progress view of the caller's records.
type Service interface {
	Metrics(ctx context.Context, p records.Principal, req Request) (DerivedMetrics, error)
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

// NewService wires up the progress domain.
func NewService(cfg Config, loader *records.Loader, logger *slog.Logger) Service {
	return newService(cfg, loader, logger, util.NowUTC)
}

func newService(cfg Config, loader snapshotLoader, logger *slog.Logger, now func() time.Time) *service {
	if !cfg.DefaultPeriod.Valid() {
		cfg.DefaultPeriod = DefaultPeriod
	}
	return &service{
		cfg:    cfg,
		loader: loader,
		logger: logger.With("component", "progress.service"),
		now:    now,
	}
}

func (s *service) Metrics(ctx context.Context, p records.Principal, req Request) (DerivedMetrics, error) {
	period := s.cfg.DefaultPeriod
	if req.Period != 0 {
		period = Period(req.Period)
		if !period.Valid() {
			return DerivedMetrics{}, apperrors.Wrap(apperrors.CodeInvalidInput,
				fmt.Sprintf("period must be one of 7, 30 or 90 days, got %d", req.Period), nil)
		}
	}

	loc, err := s.location(req.Timezone)
	if err != nil {
		return DerivedMetrics{}, apperrors.Wrap(apperrors.CodeInvalidInput,
			fmt.Sprintf("unknown timezone %q", req.Timezone), err)
	}

	snap, err := s.loader.Load(ctx, p)
	if err != nil {
		return DerivedMetrics{}, err
	}

	now := s.now().In(loc)
	metrics := Compute(snap.Logs, snap.Reminders, s.cfg.options(period), now)
	s.logger.Debug("progress computed",
		"user_id", p.UserID,
		"period", period.Days(),
		"timezone", loc.String(),
		"logs", metrics.LogCount,
	)
	return metrics, nil
}

func (s *service) location(requested string) (*time.Location, error) {
	if requested != "" {
		return util.LoadLocation(requested, time.UTC)
	}
	loc, err := util.LoadLocation(s.cfg.DefaultTimezone, time.UTC)
	if err != nil {
		s.logger.Warn("invalid default timezone, using UTC", "timezone", s.cfg.DefaultTimezone, "error", err)
		return time.UTC, nil
	}
	return loc, nil
}
