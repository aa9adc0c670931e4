package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder exports request, record source and snapshot cache metrics.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	httpDuration   *prometheus.HistogramVec
	sourceDuration *prometheus.HistogramVec
	sourceErrors   *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
}

// NewRecorder registers the collectors on reg (DefaultRegisterer when nil).
func NewRecorder(namespace string, reg prometheus.Registerer) (*Recorder, error) {
	if namespace == "" {
		namespace = "eczema_insights"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		sourceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_fetch_duration_seconds",
			Help:      "Latency of record source fetches by collection.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"collection"}),
		sourceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_fetch_errors_total",
			Help:      "Count of failed record source fetches by collection.",
		}, []string{"collection"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_cache_lookups_total",
			Help:      "Snapshot cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
	}
	var err error
	if r.httpDuration, err = registerHistogram(reg, r.httpDuration); err != nil {
		return nil, err
	}
	if r.sourceDuration, err = registerHistogram(reg, r.sourceDuration); err != nil {
		return nil, err
	}
	if r.sourceErrors, err = registerCounter(reg, r.sourceErrors); err != nil {
		return nil, err
	}
	if r.cacheLookups, err = registerCounter(reg, r.cacheLookups); err != nil {
		return nil, err
	}
	return r, nil
}

// ObserveRequest records a finished HTTP request.
func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.httpDuration.WithLabelValues(method, route, fmt.Sprintf("%d", status)).Observe(elapsed.Seconds())
}

// ObserveFetch records one record source call.
func (r *Recorder) ObserveFetch(collection string, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	r.sourceDuration.WithLabelValues(collection).Observe(elapsed.Seconds())
	if err != nil {
		r.sourceErrors.WithLabelValues(collection).Inc()
	}
}

// CacheHit, CacheMiss and CacheError count snapshot cache lookups.
func (r *Recorder) CacheHit()   { r.cacheLookup("hit") }
func (r *Recorder) CacheMiss()  { r.cacheLookup("miss") }
func (r *Recorder) CacheError() { r.cacheLookup("error") }

func (r *Recorder) cacheLookup(result string) {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

func registerHistogram(reg prometheus.Registerer, c *prometheus.HistogramVec) (*prometheus.HistogramVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register histogram: %w", err)
	}
	return c, nil
}

func registerCounter(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register counter: %w", err)
	}
	return c, nil
}
