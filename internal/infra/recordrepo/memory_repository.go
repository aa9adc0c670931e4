package recordrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/yanqian/eczema-insights/internal/domain/records"
)

// MemoryRepository provides an in-memory record source for tests/dev.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]records.Snapshot
}

// NewMemoryRepository constructs a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]records.Snapshot)}
}

// LoadFile seeds the repository from a JSON array of snapshots.
func (r *MemoryRepository) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var snapshots []records.Snapshot
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}
	for _, snap := range snapshots {
		if snap.UserID == "" {
			return fmt.Errorf("seed file %s: snapshot without userId", path)
		}
		r.Put(snap)
	}
	return nil
}

// Put replaces everything stored for snap.UserID.
func (r *MemoryRepository) Put(snap records.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[snap.UserID] = snap
}

// ListSymptomLogs implements records.Source.
func (r *MemoryRepository) ListSymptomLogs(_ context.Context, p records.Principal) ([]records.SymptomLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]records.SymptomLog(nil), r.users[p.UserID].Logs...), nil
}

// ListReminders implements records.Source.
func (r *MemoryRepository) ListReminders(_ context.Context, p records.Principal) ([]records.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]records.Reminder(nil), r.users[p.UserID].Reminders...), nil
}

// ListScans implements records.Source.
func (r *MemoryRepository) ListScans(_ context.Context, p records.Principal) ([]records.Scan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]records.Scan(nil), r.users[p.UserID].Scans...), nil
}

// ListConsultations implements records.Source.
func (r *MemoryRepository) ListConsultations(_ context.Context, p records.Principal) ([]records.Consultation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]records.Consultation(nil), r.users[p.UserID].Consultations...), nil
}

var _ records.Source = (*MemoryRepository)(nil)
