package postgres

import (
	"context"
	"database/sql"

	"github.com/mindvault/curator/internal/domain/audit"
	domain "github.com/mindvault/curator/internal/domain/items"
)

type LogRepository struct {
	db *sql.DB
}

func NewLogRepository(db *sql.DB) *LogRepository {
	return &LogRepository{db: db}
}

func (r *LogRepository) Append(ctx context.Context, e *audit.LogEntry) error {
	const q = `
INSERT INTO classification_log (id, item_id, prompt, response, model, token_count, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7);
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.ItemID, e.Prompt, e.Response, e.Model, e.TokenCount, e.CreatedAt,
	)
	return err
}

func (r *LogRepository) ListByItem(ctx context.Context, id domain.ItemID) ([]*audit.LogEntry, error) {
	const q = `
SELECT id, item_id, prompt, response, model, token_count, created_at
FROM classification_log
WHERE item_id = $1 ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*audit.LogEntry
	for rows.Next() {
		var e audit.LogEntry
		if err := rows.Scan(&e.ID, &e.ItemID, &e.Prompt, &e.Response, &e.Model, &e.TokenCount, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
