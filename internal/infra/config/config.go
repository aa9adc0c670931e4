package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "configs/config.yaml"

// Record source kinds.
const (
	SourceMemory   = "memory"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// Snapshot cache kinds.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheValkey = "valkey"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Source   SourceConfig   `yaml:"source"`
	Cache    CacheConfig    `yaml:"cache"`
	Progress ProgressConfig `yaml:"progress"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address         string          `yaml:"address"`
	ReadTimeout     time.Duration   `yaml:"readTimeout"`
	WriteTimeout    time.Duration   `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout"`
	RateLimit       RateLimitConfig `yaml:"rateLimit"`
	Retry           RetryConfig     `yaml:"retry"`
	CORS            CORSConfig      `yaml:"cors"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string      `yaml:"allowedOrigins"`
	MaxAge         time.Duration `yaml:"maxAge"`
}

// AuthConfig holds the secret shared with the backend that issues tokens.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwtSecret"`
	TokenTTL  time.Duration `yaml:"tokenTtl"`
	Leeway    time.Duration `yaml:"leeway"`
}

// SourceConfig selects where user records are read from.
type SourceConfig struct {
	Kind     string         `yaml:"kind"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Postgres PostgresConfig `yaml:"postgres"`
	// SeedFile preloads the memory source from a JSON export.
	SeedFile string `yaml:"seedFile"`
}

// UpstreamConfig points at the eczema care backend API.
type UpstreamConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// CacheConfig controls snapshot caching.
type CacheConfig struct {
	Kind   string        `yaml:"kind"`
	TTL    time.Duration `yaml:"ttl"`
	Size   int           `yaml:"size"`
	Valkey ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the shared cache.
type ValkeyConfig struct {
	Addr      string `yaml:"addr"`
	KeyPrefix string `yaml:"keyPrefix"`
}

// ProgressConfig tunes the progress metrics.
type ProgressConfig struct {
	DefaultPeriod    int    `yaml:"defaultPeriod"`
	Timezone         string `yaml:"timezone"`
	FlareUpThreshold int    `yaml:"flareUpThreshold"`
	FlareUpMonths    int    `yaml:"flareUpMonths"`
	ReminderMonths   int    `yaml:"reminderMonths"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
	Path      string `yaml:"path"`
}

// Load reads configuration from a YAML file, an optional .env file and
// environment variables, in that order of precedence (last wins).
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(defaultConfigPath); err == nil {
		if err := hydrateFromFile(cfg, defaultConfigPath); err != nil {
			return nil, err
		}
	}

	// Variables already set in the environment win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString("HTTP_ADDRESS", &cfg.HTTP.Address)
	setDuration("HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout)
	setDuration("HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout)
	setDuration("HTTP_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout)
	setBool("HTTP_RATE_LIMIT_ENABLED", &cfg.HTTP.RateLimit.Enabled)
	setInt("HTTP_RATE_LIMIT_RPM", &cfg.HTTP.RateLimit.RequestsPerMinute)
	setInt("HTTP_RATE_LIMIT_BURST", &cfg.HTTP.RateLimit.Burst)
	setBool("HTTP_RETRY_ENABLED", &cfg.HTTP.Retry.Enabled)
	setInt("HTTP_RETRY_MAX_ATTEMPTS", &cfg.HTTP.Retry.MaxAttempts)
	setDuration("HTTP_RETRY_BASE_BACKOFF", &cfg.HTTP.Retry.BaseBackoff)
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORS.AllowedOrigins = splitList(v)
	}

	// JWT_SECRET matches the variable name the backend reads.
	setString("JWT_SECRET", &cfg.Auth.JWTSecret)
	setDuration("AUTH_TOKEN_TTL", &cfg.Auth.TokenTTL)
	setDuration("AUTH_LEEWAY", &cfg.Auth.Leeway)

	setString("SOURCE_KIND", &cfg.Source.Kind)
	setString("SOURCE_SEED_FILE", &cfg.Source.SeedFile)
	setString("UPSTREAM_BASE_URL", &cfg.Source.Upstream.BaseURL)
	setDuration("UPSTREAM_TIMEOUT", &cfg.Source.Upstream.Timeout)
	setString("POSTGRES_DSN", &cfg.Source.Postgres.DSN)
	setInt32("POSTGRES_MAX_CONNS", &cfg.Source.Postgres.MaxConns)
	setInt32("POSTGRES_MIN_CONNS", &cfg.Source.Postgres.MinConns)

	setString("CACHE_KIND", &cfg.Cache.Kind)
	setDuration("CACHE_TTL", &cfg.Cache.TTL)
	setInt("CACHE_SIZE", &cfg.Cache.Size)
	setString("VALKEY_ADDR", &cfg.Cache.Valkey.Addr)
	setString("VALKEY_KEY_PREFIX", &cfg.Cache.Valkey.KeyPrefix)

	setInt("PROGRESS_DEFAULT_PERIOD", &cfg.Progress.DefaultPeriod)
	setString("PROGRESS_TIMEZONE", &cfg.Progress.Timezone)
	setInt("PROGRESS_FLARE_UP_THRESHOLD", &cfg.Progress.FlareUpThreshold)

	setBool("METRICS_ENABLED", &cfg.Metrics.Enabled)
	setString("METRICS_NAMESPACE", &cfg.Metrics.Namespace)
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setInt32(key string, dst *int32) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(parsed)
		}
	}
}

func setDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:         ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 2,
				BaseBackoff: 100 * time.Millisecond,
				Exclude:     []string{"/metrics", "/healthz"},
			},
			CORS: CORSConfig{
				AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8081"},
				MaxAge:         12 * time.Hour,
			},
		},
		Auth: AuthConfig{
			TokenTTL: time.Hour,
			Leeway:   30 * time.Second,
		},
		Source: SourceConfig{
			Kind: SourceMemory,
			Upstream: UpstreamConfig{
				BaseURL: "http://localhost:3000/api",
				Timeout: 5 * time.Second,
			},
			Postgres: PostgresConfig{
				MaxConns: 4,
				MinConns: 0,
			},
		},
		Cache: CacheConfig{
			Kind: CacheMemory,
			TTL:  30 * time.Second,
			Size: 1024,
			Valkey: ValkeyConfig{
				KeyPrefix: "eczema-insights:snapshot:",
			},
		},
		Progress: ProgressConfig{
			DefaultPeriod:    30,
			Timezone:         "UTC",
			FlareUpThreshold: 7,
			FlareUpMonths:    5,
			ReminderMonths:   6,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "eczema_insights",
			Path:      "/metrics",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("auth.jwtSecret cannot be empty")
	}
	if c.Auth.Leeway < 0 {
		return errors.New("auth.leeway cannot be negative")
	}

	switch c.Source.Kind {
	case SourceMemory:
	case SourceHTTP:
		if strings.TrimSpace(c.Source.Upstream.BaseURL) == "" {
			return errors.New("source.upstream.baseUrl cannot be empty when source.kind is http")
		}
		if c.Source.Upstream.Timeout <= 0 {
			return errors.New("source.upstream.timeout must be positive")
		}
	case SourcePostgres:
		if strings.TrimSpace(c.Source.Postgres.DSN) == "" {
			return errors.New("source.postgres.dsn cannot be empty when source.kind is postgres")
		}
		if c.Source.Postgres.MaxConns <= 0 || c.Source.Postgres.MinConns < 0 || c.Source.Postgres.MinConns > c.Source.Postgres.MaxConns {
			return errors.New("source.postgres pool bounds are invalid")
		}
	default:
		return fmt.Errorf("source.kind %q is not one of memory, http, postgres", c.Source.Kind)
	}

	switch c.Cache.Kind {
	case CacheNone:
	case CacheMemory:
		if c.Cache.Size <= 0 {
			return errors.New("cache.size must be positive for the memory cache")
		}
	case CacheValkey:
		if strings.TrimSpace(c.Cache.Valkey.Addr) == "" {
			return errors.New("cache.valkey.addr cannot be empty when cache.kind is valkey")
		}
	default:
		return fmt.Errorf("cache.kind %q is not one of none, memory, valkey", c.Cache.Kind)
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl cannot be negative")
	}

	switch c.Progress.DefaultPeriod {
	case 7, 30, 90:
	default:
		return fmt.Errorf("progress.defaultPeriod must be 7, 30 or 90, got %d", c.Progress.DefaultPeriod)
	}
	if c.Progress.Timezone != "" {
		if _, err := time.LoadLocation(c.Progress.Timezone); err != nil {
			return fmt.Errorf("progress.timezone: %w", err)
		}
	}
	if c.Progress.FlareUpThreshold < 0 || c.Progress.FlareUpThreshold > 10 {
		return errors.New("progress.flareUpThreshold must be between 0 and 10")
	}
	if c.Progress.FlareUpMonths < 0 || c.Progress.ReminderMonths < 0 {
		return errors.New("progress month windows cannot be negative")
	}

	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("metrics.path must start with /")
	}
	return nil
}
