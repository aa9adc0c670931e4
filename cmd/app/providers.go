package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/eczema-insights/internal/domain/auth"
	"github.com/yanqian/eczema-insights/internal/domain/dashboard"
	"github.com/yanqian/eczema-insights/internal/domain/progress"
	"github.com/yanqian/eczema-insights/internal/domain/records"
	"github.com/yanqian/eczema-insights/internal/infra/config"
	"github.com/yanqian/eczema-insights/internal/infra/eczemaapi"
	"github.com/yanqian/eczema-insights/internal/infra/recordcache"
	"github.com/yanqian/eczema-insights/internal/infra/recordrepo"
	httpiface "github.com/yanqian/eczema-insights/internal/interface/http"
	"github.com/yanqian/eczema-insights/pkg/metrics"
)

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:   cfg.Auth.JWTSecret,
		TokenTTL: cfg.Auth.TokenTTL,
		Leeway:   cfg.Auth.Leeway,
	}
}

func provideProgressConfig(cfg *config.Config) progress.Config {
	return progress.Config{
		DefaultPeriod:    progress.Period(cfg.Progress.DefaultPeriod),
		DefaultTimezone:  cfg.Progress.Timezone,
		FlareUpThreshold: cfg.Progress.FlareUpThreshold,
		FlareUpMonths:    cfg.Progress.FlareUpMonths,
		ReminderMonths:   cfg.Progress.ReminderMonths,
	}
}

func provideDashboardConfig(cfg *config.Config) dashboard.Config {
	return dashboard.Config{DefaultTimezone: cfg.Progress.Timezone}
}

func provideLoaderConfig(cfg *config.Config) records.LoaderConfig {
	ttl := cfg.Cache.TTL
	if cfg.Cache.Kind == config.CacheNone {
		ttl = 0
	}
	return records.LoaderConfig{CacheTTL: ttl}
}

func provideMetricsRecorder(cfg *config.Config, logger *slog.Logger) *metrics.Recorder {
	if !cfg.Metrics.Enabled {
		return nil
	}
	recorder, err := metrics.NewRecorder(cfg.Metrics.Namespace, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Error("failed to register metrics, continuing without them", "error", err)
		return nil
	}
	return recorder
}

func provideFetchObserver(recorder *metrics.Recorder) records.FetchObserver {
	if recorder == nil {
		return nil
	}
	return recorder
}

func provideRecordSource(cfg *config.Config, logger *slog.Logger) (records.Source, func(), error) {
	switch cfg.Source.Kind {
	case config.SourceHTTP:
		logger.Info("record source: upstream api", "base_url", cfg.Source.Upstream.BaseURL)
		return eczemaapi.NewClient(cfg.Source.Upstream.BaseURL, cfg.Source.Upstream.Timeout), func() {}, nil
	case config.SourcePostgres:
		pool, err := newPostgresPool(cfg.Source.Postgres)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("record source: postgres")
		return recordrepo.NewPostgresRepository(pool), pool.Close, nil
	default:
		repo := recordrepo.NewMemoryRepository()
		if path := strings.TrimSpace(cfg.Source.SeedFile); path != "" {
			if err := repo.LoadFile(path); err != nil {
				return nil, nil, fmt.Errorf("load seed file: %w", err)
			}
			logger.Info("record source: memory", "seed_file", path)
		} else {
			logger.Info("record source: memory without seed data")
		}
		return repo, func() {}, nil
	}
}

func newPostgresPool(cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// provideSnapshotCache degrades to the in-process store when valkey is unreachable.
func provideSnapshotCache(cfg *config.Config, logger *slog.Logger) (records.Cache, func()) {
	fallback := func() (records.Cache, func()) {
		return recordcache.NewMemoryStore(cfg.Cache.Size, cfg.Cache.TTL), func() {}
	}
	switch cfg.Cache.Kind {
	case config.CacheNone:
		return records.NopCache{}, func() {}
	case config.CacheValkey:
		opt, err := buildValkeyOptions(cfg.Cache.Valkey.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return fallback()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return fallback()
		}
		store := recordcache.NewValkeyStore(client, cfg.Cache.Valkey.KeyPrefix)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
			client.Close()
			return fallback()
		}
		logger.Info("snapshot cache: valkey", "addr", cfg.Cache.Valkey.Addr)
		return store, client.Close
	default:
		logger.Info("snapshot cache: memory", "size", cfg.Cache.Size, "ttl", cfg.Cache.TTL)
		return fallback()
	}
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

func provideHealthChecks(source records.Source, cache records.Cache) httpiface.HealthChecks {
	checks := httpiface.HealthChecks{}
	if p, ok := source.(pinger); ok {
		checks["source"] = p.Ping
	}
	if p, ok := cache.(pinger); ok {
		checks["cache"] = p.Ping
	}
	return checks
}
