package recordcache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/yanqian/eczema-insights/internal/domain/records"
)

type snapshotEntry struct {
	snapshot  records.Snapshot
	expiresAt time.Time
}

// MemoryStore keeps snapshots in a bounded in-process LRU. Entries expire
// after the TTL given to Save, capped by maxTTL.
type MemoryStore struct {
	lru *expirable.LRU[string, snapshotEntry]
	now func() time.Time
}

// NewMemoryStore constructs a store holding at most size snapshots.
func NewMemoryStore(size int, maxTTL time.Duration) *MemoryStore {
	if size <= 0 {
		size = 1024
	}
	return &MemoryStore{
		lru: expirable.NewLRU[string, snapshotEntry](size, nil, maxTTL),
		now: time.Now,
	}
}

// Get implements records.Cache.
func (s *MemoryStore) Get(_ context.Context, userID string) (records.Snapshot, bool, error) {
	entry, ok := s.lru.Get(userID)
	if !ok {
		return records.Snapshot{}, false, nil
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		s.lru.Remove(userID)
		return records.Snapshot{}, false, nil
	}
	return entry.snapshot, true, nil
}

// Save implements records.Cache.
func (s *MemoryStore) Save(_ context.Context, snapshot records.Snapshot, ttl time.Duration) error {
	if snapshot.UserID == "" {
		return nil
	}
	entry := snapshotEntry{snapshot: snapshot}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.lru.Add(snapshot.UserID, entry)
	return nil
}

// Len reports the number of cached snapshots.
func (s *MemoryStore) Len() int {
	return s.lru.Len()
}

var _ records.Cache = (*MemoryStore)(nil)
