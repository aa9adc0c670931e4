package recordcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/eczema-insights/internal/domain/records"
)

const defaultKeyPrefix = "eczema-insights:snapshot:"

// ValkeyStore shares snapshots between replicas through a Valkey-compatible
// database. Snapshots are stored as JSON with a TTL.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Get implements records.Cache.
func (s *ValkeyStore) Get(ctx context.Context, userID string) (records.Snapshot, bool, error) {
	if userID == "" {
		return records.Snapshot{}, false, nil
	}
	cmd := s.client.B().Get().Key(s.key(userID)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return records.Snapshot{}, false, nil
		}
		return records.Snapshot{}, false, fmt.Errorf("get snapshot: %w", err)
	}
	var snap records.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return records.Snapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, true, nil
}

// Save implements records.Cache. A TTL below one second is rounded up since
// SET EX has second granularity.
func (s *ValkeyStore) Save(ctx context.Context, snapshot records.Snapshot, ttl time.Duration) error {
	if snapshot.UserID == "" {
		return nil
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	builder := s.client.B().Set().Key(s.key(snapshot.UserID)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

// Ping checks connectivity, used by the readiness probe.
func (s *ValkeyStore) Ping(ctx context.Context) error {
	return s.client.Do(ctx, s.client.B().Ping().Build()).Error()
}

func (s *ValkeyStore) key(userID string) string {
	return s.prefix + userID
}

var _ records.Cache = (*ValkeyStore)(nil)
