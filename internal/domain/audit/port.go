package audit

import (
	"context"

	"github.com/mindvault/curator/internal/domain/items"
)

// Repository port; append-only.
type Repository interface {
	Append(ctx context.Context, e *LogEntry) error
	ListByItem(ctx context.Context, id items.ItemID) ([]*LogEntry, error)
}
