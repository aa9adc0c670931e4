package records

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/eczema-insights/pkg/errors"
)

type stubSource struct {
	mu      sync.Mutex
	calls   map[string]int
	logs    []SymptomLog
	failOn  string
	failErr error
	lastTok string
}

func (s *stubSource) record(collection string, p Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[collection]++
	s.lastTok = p.Token
	if collection == s.failOn {
		if s.failErr != nil {
			return s.failErr
		}
		return errors.New(collection + " unavailable")
	}
	return nil
}

func (s *stubSource) ListSymptomLogs(_ context.Context, p Principal) ([]SymptomLog, error) {
	if err := s.record("symptom_logs", p); err != nil {
		return nil, err
	}
	return s.logs, nil
}

func (s *stubSource) ListReminders(_ context.Context, p Principal) ([]Reminder, error) {
	if err := s.record("reminders", p); err != nil {
		return nil, err
	}
	return []Reminder{{ID: "r1", Type: ReminderCustom}}, nil
}

func (s *stubSource) ListScans(_ context.Context, p Principal) ([]Scan, error) {
	if err := s.record("scans", p); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *stubSource) ListConsultations(_ context.Context, p Principal) ([]Consultation, error) {
	if err := s.record("consultations", p); err != nil {
		return nil, err
	}
	return nil, nil
}

type stubCache struct {
	items   map[string]Snapshot
	getErr  error
	saveErr error
	lastTTL time.Duration
}

func (c *stubCache) Get(_ context.Context, userID string) (Snapshot, bool, error) {
	if c.getErr != nil {
		return Snapshot{}, false, c.getErr
	}
	snap, ok := c.items[userID]
	return snap, ok, nil
}

func (c *stubCache) Save(_ context.Context, snap Snapshot, ttl time.Duration) error {
	if c.saveErr != nil {
		return c.saveErr
	}
	if c.items == nil {
		c.items = make(map[string]Snapshot)
	}
	c.items[snap.UserID] = snap
	c.lastTTL = ttl
	return nil
}

type stubObserver struct {
	mu      sync.Mutex
	fetches map[string]int
	errors  int
	hits    int
	misses  int
	cacheEr int
}

func (o *stubObserver) ObserveFetch(collection string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fetches == nil {
		o.fetches = make(map[string]int)
	}
	o.fetches[collection]++
	if err != nil {
		o.errors++
	}
}

func (o *stubObserver) CacheHit()   { o.hits++ }
func (o *stubObserver) CacheMiss()  { o.misses++ }
func (o *stubObserver) CacheError() { o.cacheEr++ }

func newTestLoader(ttl time.Duration, source Source, cache Cache, observer FetchObserver) *Loader {
	l := NewLoader(LoaderConfig{CacheTTL: ttl}, source, cache, observer, slog.New(slog.NewTextHandler(io.Discard, nil)))
	l.now = func() time.Time { return time.Date(2024, time.July, 15, 12, 0, 0, 0, time.UTC) }
	return l
}

func TestLoaderFetchesAndCaches(t *testing.T) {
	source := &stubSource{logs: []SymptomLog{{ID: "l1", ItchinessLevel: 5}}}
	cache := &stubCache{}
	observer := &stubObserver{}
	loader := newTestLoader(time.Minute, source, cache, observer)
	principal := Principal{UserID: "u1", Token: "tok"}

	snap, err := loader.Load(context.Background(), principal)
	require.NoError(t, err)
	require.Equal(t, "u1", snap.UserID)
	require.Len(t, snap.Logs, 1)
	require.Len(t, snap.Reminders, 1)
	require.Equal(t, time.Date(2024, time.July, 15, 12, 0, 0, 0, time.UTC), snap.FetchedAt)
	require.Equal(t, "tok", source.lastTok)
	require.Equal(t, time.Minute, cache.lastTTL)
	require.Equal(t, 1, observer.misses)
	require.Len(t, observer.fetches, 4)

	again, err := loader.Load(context.Background(), principal)
	require.NoError(t, err)
	require.Equal(t, snap, again)
	require.Equal(t, 1, source.calls["symptom_logs"], "second load is served from cache")
	require.Equal(t, 1, observer.hits)
}

func TestLoaderWithoutTTLSkipsCache(t *testing.T) {
	source := &stubSource{}
	cache := &stubCache{}
	loader := newTestLoader(0, source, cache, nil)

	for i := 0; i < 2; i++ {
		_, err := loader.Load(context.Background(), Principal{UserID: "u1"})
		require.NoError(t, err)
	}
	require.Equal(t, 2, source.calls["reminders"])
	require.Empty(t, cache.items)
}

func TestLoaderBypassesBrokenCache(t *testing.T) {
	source := &stubSource{}
	cache := &stubCache{getErr: errors.New("valkey down"), saveErr: errors.New("valkey down")}
	observer := &stubObserver{}
	loader := newTestLoader(time.Minute, source, cache, observer)

	_, err := loader.Load(context.Background(), Principal{UserID: "u1"})
	require.NoError(t, err)
	require.Equal(t, 1, observer.cacheEr)
	require.Equal(t, 1, source.calls["scans"])
}

func TestLoaderSourceFailure(t *testing.T) {
	source := &stubSource{failOn: "consultations"}
	observer := &stubObserver{}
	loader := newTestLoader(time.Minute, source, nil, observer)

	_, err := loader.Load(context.Background(), Principal{UserID: "u1"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeSourceError))
	require.Equal(t, 1, observer.errors)
}

func TestLoaderRejectedCredentials(t *testing.T) {
	source := &stubSource{failOn: "reminders", failErr: fmt.Errorf("reminders request: %w (status=401)", ErrUnauthorized)}
	cache := &stubCache{}
	loader := newTestLoader(time.Minute, source, cache, nil)

	_, err := loader.Load(context.Background(), Principal{UserID: "u1", Token: "stale"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Empty(t, cache.items)
}

func TestLoaderRequiresUser(t *testing.T) {
	loader := newTestLoader(0, &stubSource{}, nil, nil)
	_, err := loader.Load(context.Background(), Principal{UserID: "  "})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}
