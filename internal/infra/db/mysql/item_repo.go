package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domain "github.com/mindvault/curator/internal/domain/items"
)

type ItemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

const itemColumns = `id, source_kind, external_id, original_name, media_type, byte_size,
       extracted_text, summary, tags, pillar_id, pillar_name, topic_id, topic_name,
       confidence, rationale, status, storage_backend, storage_blob_id, storage_url,
       created_at, updated_at`

// Create insert Item record
func (r *ItemRepository) Create(ctx context.Context, it *domain.Item) error {
	const q = `
INSERT INTO items
(id, source_kind, external_id, original_name, media_type, byte_size,
 extracted_text, summary, tags, pillar_id, pillar_name, topic_id, topic_name,
 confidence, rationale, status, storage_backend, storage_blob_id, storage_url,
 created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);
`
	_, err := r.db.ExecContext(ctx, q, itemArgs(it)...)
	return err
}

// CreateIfAbsent inserts unless external_id already exists (unique index);
// the duplicate insert is silently ignored.
func (r *ItemRepository) CreateIfAbsent(ctx context.Context, it *domain.Item) (bool, error) {
	const q = `
INSERT IGNORE INTO items
(id, source_kind, external_id, original_name, media_type, byte_size,
 extracted_text, summary, tags, pillar_id, pillar_name, topic_id, topic_name,
 confidence, rationale, status, storage_backend, storage_blob_id, storage_url,
 created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);
`
	res, err := r.db.ExecContext(ctx, q, itemArgs(it)...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Update applies a partial merge: only non-nil patch fields change, plus
// updated_at.
func (r *ItemRepository) Update(ctx context.Context, id domain.ItemID, p domain.Patch) error {
	sets := []string{"updated_at = ?"}
	args := []interface{}{time.Now().UTC()}

	add := func(col string, v interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if p.Summary != nil {
		add("summary", *p.Summary)
	}
	if p.Tags != nil {
		b, err := json.Marshal(*p.Tags)
		if err != nil {
			return err
		}
		add("tags", string(b))
	}
	if p.PillarID != nil {
		add("pillar_id", *p.PillarID)
	}
	if p.PillarName != nil {
		add("pillar_name", *p.PillarName)
	}
	if p.TopicID != nil {
		add("topic_id", *p.TopicID)
	}
	if p.TopicName != nil {
		add("topic_name", *p.TopicName)
	}
	if p.Confidence != nil {
		add("confidence", *p.Confidence)
	}
	if p.Rationale != nil {
		add("rationale", *p.Rationale)
	}
	if p.Status != nil {
		add("status", string(*p.Status))
	}
	if p.ExtractedText != nil {
		add("extracted_text", *p.ExtractedText)
	}
	if p.Storage != nil {
		add("storage_backend", string(p.Storage.Backend))
		add("storage_blob_id", p.Storage.BlobID)
		add("storage_url", p.Storage.URL)
	}

	q := fmt.Sprintf("UPDATE items SET %s WHERE id = ?;", strings.Join(sets, ", "))
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Get by ID
func (r *ItemRepository) Get(ctx context.Context, id domain.ItemID) (*domain.Item, error) {
	q := fmt.Sprintf("SELECT %s FROM items WHERE id = ? LIMIT 1;", itemColumns)
	it, err := scanItem(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return it, err
}

func (r *ItemRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Item, error) {
	q := fmt.Sprintf("SELECT %s FROM items WHERE external_id = ? LIMIT 1;", itemColumns)
	it, err := scanItem(r.db.QueryRowContext(ctx, q, externalID))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return it, err
}

// List newest-first with optional filters
func (r *ItemRepository) List(ctx context.Context, f domain.Filter) ([]*domain.Item, error) {
	q := fmt.Sprintf("SELECT %s FROM items WHERE 1=1", itemColumns)
	var args []interface{}

	if f.PillarID != "" {
		q += " AND pillar_id = ?"
		args = append(args, f.PillarID)
	}
	if f.Status != "" {
		q += " AND status = ?"
		args = append(args, string(f.Status))
	}
	if f.Search != "" {
		term := "%" + escapeLikePattern(strings.ToLower(f.Search)) + "%"
		q += " AND (LOWER(summary) LIKE ? OR LOWER(tags) LIKE ? OR LOWER(original_name) LIKE ?)"
		args = append(args, term, term, term)
	}
	q += " ORDER BY created_at DESC;"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var out []*domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var it domain.Item
	var external, mediaType, extracted, summary, tagsJSON sql.NullString
	var pillarID, pillarName, topicID, topicName, rationale sql.NullString
	var backend, blobID, url sql.NullString

	if err := row.Scan(
		&it.ID, &it.SourceKind, &external, &it.OriginalName, &mediaType, &it.ByteSize,
		&extracted, &summary, &tagsJSON, &pillarID, &pillarName, &topicID, &topicName,
		&it.Confidence, &rationale, &it.Status, &backend, &blobID, &url,
		&it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return nil, err
	}

	it.ExternalID = external.String
	it.MediaType = mediaType.String
	it.ExtractedText = extracted.String
	it.Summary = summary.String
	it.PillarID = pillarID.String
	it.PillarName = pillarName.String
	it.TopicID = topicID.String
	it.TopicName = topicName.String
	it.Rationale = rationale.String

	if tagsJSON.Valid && tagsJSON.String != "" {
		_ = json.Unmarshal([]byte(tagsJSON.String), &it.Tags)
	}
	// rows from before the storage columns were added have nulls here
	if backend.Valid && backend.String != "" {
		it.Storage = &domain.StorageRef{
			Backend: domain.Backend(backend.String),
			BlobID:  blobID.String,
			URL:     url.String,
		}
	}
	return &it, nil
}

func itemArgs(it *domain.Item) []interface{} {
	tagsJSON := "[]"
	if len(it.Tags) > 0 {
		b, _ := json.Marshal(it.Tags)
		tagsJSON = string(b)
	}

	var external interface{}
	if it.ExternalID != "" {
		external = it.ExternalID
	}
	var backend, blobID, url interface{}
	if it.Storage != nil {
		backend = string(it.Storage.Backend)
		blobID = it.Storage.BlobID
		url = it.Storage.URL
	}

	return []interface{}{
		it.ID, string(it.SourceKind), external, it.OriginalName, it.MediaType, it.ByteSize,
		it.ExtractedText, it.Summary, tagsJSON, it.PillarID, it.PillarName, it.TopicID, it.TopicName,
		it.Confidence, it.Rationale, string(it.Status), backend, blobID, url,
		it.CreatedAt, it.UpdatedAt,
	}
}
