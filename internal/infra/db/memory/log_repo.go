package memory

import (
	"context"
	"sync"

	"github.com/mindvault/curator/internal/domain/audit"
	domain "github.com/mindvault/curator/internal/domain/items"
)

type LogRepository struct {
	mu      sync.RWMutex
	entries []*audit.LogEntry
}

func NewLogRepository() *LogRepository {
	return &LogRepository{}
}

func (r *LogRepository) Append(_ context.Context, e *audit.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *LogRepository) ListByItem(_ context.Context, id domain.ItemID) ([]*audit.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*audit.LogEntry
	for _, e := range r.entries {
		if e.ItemID == id {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// All returns every entry; test helper.
func (r *LogRepository) All() []*audit.LogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*audit.LogEntry(nil), r.entries...)
}
