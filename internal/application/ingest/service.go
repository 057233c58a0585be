package ingest

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mindvault/curator/internal/application"
	"github.com/mindvault/curator/internal/application/classify"
	domai "github.com/mindvault/curator/internal/domain/ai"
	"github.com/mindvault/curator/internal/domain/audit"
	domain "github.com/mindvault/curator/internal/domain/items"
	"github.com/mindvault/curator/internal/domain/taxonomy"
	"github.com/mindvault/curator/internal/domain/videos"
	"github.com/mindvault/curator/internal/infra/extract"
)

// Service implements use-cases untuk satu item: extract → store → classify →
// persist, plus operator confirm/reclassify and original-bytes retrieval.
// Each call runs the pipeline synchronously end-to-end.
type Service struct {
	Items      domain.Repository
	Logs       audit.Repository
	Blobs      domain.BlobStore
	Videos     videos.MetadataSource
	Extractor  *extract.Extractor
	Classifier *classify.Service
	Tax        *taxonomy.Taxonomy
	Clock      application.Clock
}

// Command untuk upload file
type IngestFileCommand struct {
	Name      string
	MediaType string
	Data      []byte
}

// IngestFile runs the full pipeline for one uploaded file. The returned item
// reflects the final state; a non-nil error means the ingestion did not reach
// classified (the partial row is still durable for diagnosis).
func (s *Service) IngestFile(ctx context.Context, cmd IngestFileCommand) (*domain.Item, error) {
	now := s.Clock.Now()
	id := domain.ItemID(uuid.New().String())

	text := s.Extractor.ExtractFile(cmd.Name, cmd.MediaType, cmd.Data)

	// Create an initial row first so we always have an ID to reference
	it := &domain.Item{
		ID:            id,
		SourceKind:    domain.SourceFile,
		OriginalName:  cmd.Name,
		MediaType:     cmd.MediaType,
		ByteSize:      int64(len(cmd.Data)),
		ExtractedText: text,
		Status:        domain.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Items.Create(ctx, it); err != nil {
		return nil, err
	}

	ref, err := s.Blobs.Store(ctx, domain.BlobPut{
		ItemID:      id,
		DisplayName: cmd.Name,
		MediaType:   cmd.MediaType,
		Data:        cmd.Data,
	})
	if err != nil {
		// storage failure is fatal to this ingestion; no fallback
		_ = s.markError(ctx, id, err.Error())
		it.Status = domain.StatusError
		return it, err
	}
	if err := s.Items.Update(ctx, id, domain.Patch{Storage: &ref}); err != nil {
		return nil, err
	}

	return s.classifyAndReload(ctx, id, cmd.Name, text)
}

// IngestVideo fetches metadata for a single video and classifies it. No blob
// is stored; the source video stays remote.
func (s *Service) IngestVideo(ctx context.Context, videoID string) (*domain.Item, error) {
	meta, err := s.Videos.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return s.IngestMember(ctx, meta, domain.SourceVideo)
}

// IngestMember ingests one pre-fetched video. Re-submitting the same external
// id is silently ignored and returns the existing item.
func (s *Service) IngestMember(ctx context.Context, meta videos.Meta, kind domain.SourceKind) (*domain.Item, error) {
	now := s.Clock.Now()
	id := domain.ItemID(uuid.New().String())
	text := s.Extractor.ExtractVideo(meta)

	it := &domain.Item{
		ID:            id,
		SourceKind:    kind,
		ExternalID:    meta.ID,
		OriginalName:  meta.Title,
		ExtractedText: text,
		Status:        domain.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	inserted, err := s.Items.CreateIfAbsent(ctx, it)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// duplicate member; leave the existing row alone
		return s.Items.GetByExternalID(ctx, meta.ID)
	}

	return s.classifyAndReload(ctx, id, meta.Title, text)
}

func (s *Service) classifyAndReload(ctx context.Context, id domain.ItemID, name, text string) (*domain.Item, error) {
	_, cerr := s.Classifier.Run(ctx, id, name, text)

	it, err := s.Items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// missing credential degrades to needs_api_key, not an ingestion failure
	if cerr != nil && !errors.Is(cerr, domai.ErrNotConfigured) {
		return it, cerr
	}
	return it, nil
}

// Confirm marks a classified item as operator-confirmed as-is.
func (s *Service) Confirm(ctx context.Context, id domain.ItemID) (*domain.Item, error) {
	it, err := s.Items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if it.Status != domain.StatusClassified {
		return nil, domain.ErrValidationFailed
	}
	st := domain.StatusConfirmed
	if err := s.Items.Update(ctx, id, domain.Patch{Status: &st}); err != nil {
		return nil, err
	}
	return s.Items.Get(ctx, id)
}

// Reclassify overrides pillar/topic with an explicit operator choice. Unknown
// ids are rejected before any mutation, and like Confirm it only applies to
// classified items.
func (s *Service) Reclassify(ctx context.Context, id domain.ItemID, pillarID, topicID string) (*domain.Item, error) {
	topic, err := s.Tax.FindTopic(pillarID, topicID)
	if err != nil {
		return nil, domain.ErrValidationFailed
	}
	pillar, _ := s.Tax.FindPillar(pillarID)

	it, err := s.Items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if it.Status != domain.StatusClassified {
		return nil, domain.ErrValidationFailed
	}

	st := domain.StatusConfirmed
	conf := 1.0
	if err := s.Items.Update(ctx, id, domain.Patch{
		PillarID:   &pillar.ID,
		PillarName: &pillar.NamePrimary,
		TopicID:    &topic.ID,
		TopicName:  &topic.Name,
		Confidence: &conf,
		Status:     &st,
	}); err != nil {
		return nil, err
	}
	return s.Items.Get(ctx, id)
}

// Get ambil 1 item by id
func (s *Service) Get(ctx context.Context, id domain.ItemID) (*domain.Item, error) {
	return s.Items.Get(ctx, id)
}

// List ambil items terbaru dengan filter opsional
func (s *Service) List(ctx context.Context, f domain.Filter) ([]*domain.Item, error) {
	return s.Items.List(ctx, f)
}

// FetchOriginal returns the stored original bytes for an item.
func (s *Service) FetchOriginal(ctx context.Context, id domain.ItemID) ([]byte, *domain.Item, error) {
	it, err := s.Items.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if it.Storage == nil {
		return nil, nil, domain.ErrBlobNotFound
	}
	data, err := s.Blobs.Fetch(ctx, *it.Storage)
	if err != nil {
		return nil, nil, err
	}
	return data, it, nil
}

// AuditLog returns the classification attempts recorded for an item.
func (s *Service) AuditLog(ctx context.Context, id domain.ItemID) ([]*audit.LogEntry, error) {
	if _, err := s.Items.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.Logs.ListByItem(ctx, id)
}

func (s *Service) markError(ctx context.Context, id domain.ItemID, detail string) error {
	st := domain.StatusError
	return s.Items.Update(ctx, id, domain.Patch{Status: &st, Rationale: &detail})
}

