package audit

import (
	"time"

	"github.com/mindvault/curator/internal/domain/items"
)

// LogEntry immutable record of one classification attempt. One entry per
// classifier invocation, success or failure; never updated or removed.
type LogEntry struct {
	ID         string       `json:"id"`
	ItemID     items.ItemID `json:"item_id"`
	Prompt     string       `json:"prompt"`
	Response   string       `json:"response"`
	Model      string       `json:"model"`
	TokenCount int          `json:"token_count"`
	CreatedAt  time.Time    `json:"created_at"`
}
