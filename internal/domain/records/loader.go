package records

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/yanqian/eczema-insights/pkg/errors"
)

// LoaderConfig controls snapshot caching.
type LoaderConfig struct {
	CacheTTL time.Duration
}

// Loader assembles a Snapshot from a Source, going through the Cache first.
type Loader struct {
	cfg      LoaderConfig
	source   Source
	cache    Cache
	observer FetchObserver
	logger   *slog.Logger
	now      func() time.Time
}

// NewLoader wires a loader. cache and observer may be nil.
func NewLoader(cfg LoaderConfig, source Source, cache Cache, observer FetchObserver, logger *slog.Logger) *Loader {
	if cache == nil {
		cache = NopCache{}
	}
	return &Loader{
		cfg:      cfg,
		source:   source,
		cache:    cache,
		observer: observer,
		logger:   logger.With("component", "records.loader"),
		now:      time.Now,
	}
}

// Load returns the principal's snapshot. Cache failures are logged and
// bypassed; source failures are returned as source_error.
func (l *Loader) Load(ctx context.Context, p Principal) (Snapshot, error) {
	if strings.TrimSpace(p.UserID) == "" {
		return Snapshot{}, apperrors.Wrap(apperrors.CodeInvalidInput, "user id is required", nil)
	}

	if l.cfg.CacheTTL > 0 {
		snap, ok, err := l.cache.Get(ctx, p.UserID)
		switch {
		case err != nil:
			l.cacheError()
			l.logger.Warn("snapshot cache read failed", "user_id", p.UserID, "error", err)
		case ok:
			l.cacheHit()
			return snap, nil
		default:
			l.cacheMiss()
		}
	}

	snap := Snapshot{UserID: p.UserID}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Logs, err = timed(l, "symptom_logs", func() ([]SymptomLog, error) { return l.source.ListSymptomLogs(gctx, p) })
		return err
	})
	g.Go(func() error {
		var err error
		snap.Reminders, err = timed(l, "reminders", func() ([]Reminder, error) { return l.source.ListReminders(gctx, p) })
		return err
	})
	g.Go(func() error {
		var err error
		snap.Scans, err = timed(l, "scans", func() ([]Scan, error) { return l.source.ListScans(gctx, p) })
		return err
	})
	g.Go(func() error {
		var err error
		snap.Consultations, err = timed(l, "consultations", func() ([]Consultation, error) { return l.source.ListConsultations(gctx, p) })
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return Snapshot{}, apperrors.Wrap(apperrors.CodeInvalidToken, "credentials rejected by record source", err)
		}
		return Snapshot{}, apperrors.Wrap(apperrors.CodeSourceError, "failed to load records", err)
	}
	snap.FetchedAt = l.now().UTC()

	if l.cfg.CacheTTL > 0 {
		if err := l.cache.Save(ctx, snap, l.cfg.CacheTTL); err != nil {
			l.logger.Warn("snapshot cache write failed", "user_id", p.UserID, "error", err)
		}
	}
	l.logger.Debug("records loaded",
		"user_id", p.UserID,
		"logs", len(snap.Logs),
		"reminders", len(snap.Reminders),
		"scans", len(snap.Scans),
		"consultations", len(snap.Consultations),
	)
	return snap, nil
}

func timed[T any](l *Loader, collection string, fetch func() ([]T, error)) ([]T, error) {
	start := time.Now()
	items, err := fetch()
	if l.observer != nil {
		l.observer.ObserveFetch(collection, time.Since(start), err)
	}
	if err != nil {
		l.logger.Error("record fetch failed", "collection", collection, "error", err)
		return nil, err
	}
	return items, nil
}

func (l *Loader) cacheHit() {
	if l.observer != nil {
		l.observer.CacheHit()
	}
}

func (l *Loader) cacheMiss() {
	if l.observer != nil {
		l.observer.CacheMiss()
	}
}

func (l *Loader) cacheError() {
	if l.observer != nil {
		l.observer.CacheError()
	}
}
