package ingest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindvault/curator/internal/application"
	"github.com/mindvault/curator/internal/application/classify"
	domai "github.com/mindvault/curator/internal/domain/ai"
	domain "github.com/mindvault/curator/internal/domain/items"
	"github.com/mindvault/curator/internal/domain/taxonomy"
	"github.com/mindvault/curator/internal/domain/videos"
	"github.com/mindvault/curator/internal/infra/db/memory"
	"github.com/mindvault/curator/internal/infra/extract"
)

type fakeCompleter struct {
	text string
	err  error
}

func (f *fakeCompleter) Complete(_ context.Context, _ string, _ bool) (domai.Completion, error) {
	if f.err != nil {
		return domai.Completion{}, f.err
	}
	return domai.Completion{Text: f.text, Model: "fake-model", TokenCount: 100}, nil
}

type fakeBlobStore struct {
	puts    []domain.BlobPut
	failPut bool
	blobs   map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (f *fakeBlobStore) Store(_ context.Context, put domain.BlobPut) (domain.StorageRef, error) {
	if f.failPut {
		return domain.StorageRef{}, fmt.Errorf("%w: connection refused", domain.ErrStorageUnavailable)
	}
	f.puts = append(f.puts, put)
	f.blobs[put.DisplayName] = put.Data
	return domain.StorageRef{Backend: domain.BackendRemote, BlobID: put.DisplayName, URL: "http://store/" + put.DisplayName}, nil
}

func (f *fakeBlobStore) Fetch(_ context.Context, ref domain.StorageRef) ([]byte, error) {
	data, ok := f.blobs[ref.BlobID]
	if !ok {
		return nil, domain.ErrBlobNotFound
	}
	return data, nil
}

func (f *fakeBlobStore) Delete(_ context.Context, _ domain.StorageRef) error { return nil }

type fakeVideoSource struct {
	metas map[string]videos.Meta
}

func (f *fakeVideoSource) GetVideo(_ context.Context, id string) (videos.Meta, error) {
	m, ok := f.metas[id]
	if !ok {
		return videos.Meta{}, videos.ErrVideoNotFound
	}
	return m, nil
}

func (f *fakeVideoSource) ListPlaylistItems(_ context.Context, _, _ string) ([]videos.Meta, string, error) {
	return nil, "", nil
}

const goodResponse = `{"pillar_id":"P3","topic_id":"P3.05","summary":"Retirement investing.",
"tags":["investing","retirement","finance"],"confidence":0.9,"rationale":"Finance content."}`

func newService(t *testing.T, c domai.Completer, blobs domain.BlobStore, src videos.MetadataSource) (*Service, *memory.ItemRepository, *memory.LogRepository) {
	t.Helper()
	itemRepo := memory.NewItemRepository()
	logRepo := memory.NewLogRepository()
	clock := application.FixedClock{T: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	tax := taxonomy.Default()

	svc := &Service{
		Items:  itemRepo,
		Logs:   logRepo,
		Blobs:  blobs,
		Videos: src,
		Extractor: extract.New(0),
		Classifier: &classify.Service{
			Items: itemRepo,
			Logs:  logRepo,
			AI:    c,
			Tax:   tax,
			Clock: clock,
		},
		Tax:   tax,
		Clock: clock,
	}
	return svc, itemRepo, logRepo
}

func TestIngestFileWithoutCredential(t *testing.T) {
	blobs := newFakeBlobStore()
	svc, _, logRepo := newService(t, &fakeCompleter{err: domai.ErrNotConfigured}, blobs, nil)

	it, err := svc.IngestFile(context.Background(), IngestFileCommand{
		Name:      "notes.md",
		MediaType: "text/markdown",
		Data:      []byte("Deep work and focus habits"),
	})
	require.NoError(t, err, "missing credential must not fail the ingestion")

	assert.Equal(t, domain.StatusNeedsAPIKey, it.Status)
	assert.Empty(t, it.PillarID)
	assert.Equal(t, "Deep work and focus habits", it.ExtractedText)
	assert.NotNil(t, it.Storage)
	assert.Empty(t, logRepo.All())
}

func TestIngestFileClassifies(t *testing.T) {
	blobs := newFakeBlobStore()
	svc, _, logRepo := newService(t, &fakeCompleter{text: goodResponse}, blobs, nil)

	it, err := svc.IngestFile(context.Background(), IngestFileCommand{
		Name:      "retirement.txt",
		MediaType: "text/plain",
		Data:      []byte("Investing in index funds for retirement"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusClassified, it.Status)
	assert.Equal(t, "P3", it.PillarID)
	assert.Equal(t, "Business & Wealth", it.PillarName)
	assert.GreaterOrEqual(t, it.Confidence, 0.0)
	assert.LessOrEqual(t, it.Confidence, 1.0)
	assert.GreaterOrEqual(t, len(it.Tags), 3)
	assert.LessOrEqual(t, len(it.Tags), 7)
	require.Len(t, blobs.puts, 1)
	assert.Equal(t, "retirement.txt", blobs.puts[0].DisplayName)
	assert.Len(t, logRepo.All(), 1)
}

func TestIngestFileStorageUnavailable(t *testing.T) {
	blobs := newFakeBlobStore()
	blobs.failPut = true
	svc, itemRepo, _ := newService(t, &fakeCompleter{text: goodResponse}, blobs, nil)

	it, err := svc.IngestFile(context.Background(), IngestFileCommand{
		Name:      "doc.txt",
		MediaType: "text/plain",
		Data:      []byte("hello"),
	})
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)

	// the partial row is durable but never reaches classified, and nothing
	// was written anywhere as a fallback
	require.NotNil(t, it)
	stored, gerr := itemRepo.Get(context.Background(), it.ID)
	require.NoError(t, gerr)
	assert.Equal(t, domain.StatusError, stored.Status)
	assert.NotEmpty(t, stored.Rationale)
	assert.Empty(t, blobs.puts)
}

func TestIngestVideo(t *testing.T) {
	src := &fakeVideoSource{metas: map[string]videos.Meta{
		"v1": {ID: "v1", Title: "Index funds explained", Channel: "Money", Description: "Retirement investing basics."},
	}}
	svc, _, _ := newService(t, &fakeCompleter{text: goodResponse}, newFakeBlobStore(), src)

	it, err := svc.IngestVideo(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceVideo, it.SourceKind)
	assert.Equal(t, "v1", it.ExternalID)
	assert.Equal(t, "Index funds explained", it.OriginalName)
	assert.Equal(t, domain.StatusClassified, it.Status)
	assert.Nil(t, it.Storage)

	t.Run("unknown video surfaces not found", func(t *testing.T) {
		_, err := svc.IngestVideo(context.Background(), "missing")
		assert.ErrorIs(t, err, videos.ErrVideoNotFound)
	})
}

func TestIngestMemberDeduplicates(t *testing.T) {
	svc, itemRepo, _ := newService(t, &fakeCompleter{text: goodResponse}, newFakeBlobStore(), nil)
	meta := videos.Meta{ID: "dup-1", Title: "Once only"}

	first, err := svc.IngestMember(context.Background(), meta, domain.SourcePlaylistMember)
	require.NoError(t, err)

	second, err := svc.IngestMember(context.Background(), meta, domain.SourcePlaylistMember)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	list, err := itemRepo.List(context.Background(), domain.Filter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestConfirm(t *testing.T) {
	svc, _, _ := newService(t, &fakeCompleter{text: goodResponse}, newFakeBlobStore(), nil)

	it, err := svc.IngestFile(context.Background(), IngestFileCommand{Name: "a.txt", MediaType: "text/plain", Data: []byte("x")})
	require.NoError(t, err)

	confirmed, err := svc.Confirm(context.Background(), it.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, confirmed.Status)

	t.Run("only classified items can be confirmed", func(t *testing.T) {
		_, err := svc.Confirm(context.Background(), confirmed.ID)
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := svc.Confirm(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestReclassify(t *testing.T) {
	svc, itemRepo, _ := newService(t, &fakeCompleter{text: goodResponse}, newFakeBlobStore(), nil)

	it, err := svc.IngestFile(context.Background(), IngestFileCommand{Name: "a.txt", MediaType: "text/plain", Data: []byte("x")})
	require.NoError(t, err)

	got, err := svc.Reclassify(context.Background(), it.ID, "P1", "P1.02")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Equal(t, "P1", got.PillarID)
	assert.Equal(t, "Mind & Learning", got.PillarName)
	assert.Equal(t, "P1.02", got.TopicID)
	assert.Equal(t, 1.0, got.Confidence)

	t.Run("unknown pillar rejected before mutation", func(t *testing.T) {
		_, err := svc.Reclassify(context.Background(), it.ID, "P99", "P99.01")
		assert.ErrorIs(t, err, domain.ErrValidationFailed)

		unchanged, _ := itemRepo.Get(context.Background(), it.ID)
		assert.Equal(t, "P1", unchanged.PillarID)
	})

	t.Run("topic from another pillar rejected", func(t *testing.T) {
		_, err := svc.Reclassify(context.Background(), it.ID, "P1", "P3.05")
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
	})

	t.Run("only classified items can be reclassified", func(t *testing.T) {
		require.NoError(t, itemRepo.Create(context.Background(), &domain.Item{
			ID:           "failed-item",
			SourceKind:   domain.SourceFile,
			OriginalName: "broken.txt",
			Status:       domain.StatusError,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}))

		_, err := svc.Reclassify(context.Background(), "failed-item", "P1", "P1.02")
		assert.ErrorIs(t, err, domain.ErrValidationFailed)

		unchanged, gerr := itemRepo.Get(context.Background(), "failed-item")
		require.NoError(t, gerr)
		assert.Equal(t, domain.StatusError, unchanged.Status)
		assert.Empty(t, unchanged.PillarID)
	})
}

func TestFetchOriginal(t *testing.T) {
	blobs := newFakeBlobStore()
	svc, _, _ := newService(t, &fakeCompleter{text: goodResponse}, blobs, nil)

	it, err := svc.IngestFile(context.Background(), IngestFileCommand{Name: "a.txt", MediaType: "text/plain", Data: []byte("payload")})
	require.NoError(t, err)

	data, got, err := svc.FetchOriginal(context.Background(), it.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
	assert.Equal(t, it.ID, got.ID)

	t.Run("video item has no stored original", func(t *testing.T) {
		src := &fakeVideoSource{metas: map[string]videos.Meta{"v1": {ID: "v1", Title: "t"}}}
		svc, _, _ := newService(t, &fakeCompleter{text: goodResponse}, blobs, src)
		vit, err := svc.IngestVideo(context.Background(), "v1")
		require.NoError(t, err)

		_, _, err = svc.FetchOriginal(context.Background(), vit.ID)
		assert.ErrorIs(t, err, domain.ErrBlobNotFound)
	})
}
