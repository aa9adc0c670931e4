package records

import (
	"context"
	"errors"
	"time"
)

// ErrUnauthorized marks a Source failure caused by the system of record
// rejecting the principal's credentials.
var ErrUnauthorized = errors.New("upstream rejected credentials")

// Source reads a user's records from the system of record.
type Source interface {
	ListSymptomLogs(ctx context.Context, p Principal) ([]SymptomLog, error)
	ListReminders(ctx context.Context, p Principal) ([]Reminder, error)
	ListScans(ctx context.Context, p Principal) ([]Scan, error)
	ListConsultations(ctx context.Context, p Principal) ([]Consultation, error)
}

// Cache stores fetched snapshots for a short time. Only inputs are cached;
// derived metrics are recomputed on every request.
type Cache interface {
	Get(ctx context.Context, userID string) (Snapshot, bool, error)
	Save(ctx context.Context, snapshot Snapshot, ttl time.Duration) error
}

// FetchObserver receives per-collection fetch timings and cache outcomes.
type FetchObserver interface {
	ObserveFetch(collection string, elapsed time.Duration, err error)
	CacheHit()
	CacheMiss()
	CacheError()
}

// NopCache never hits.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (Snapshot, bool, error) { return Snapshot{}, false, nil }
func (NopCache) Save(context.Context, Snapshot, time.Duration) error  { return nil }
