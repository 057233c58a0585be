// Package memory provides in-memory repository implementations for tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domain "github.com/mindvault/curator/internal/domain/items"
)

type ItemRepository struct {
	mu    sync.RWMutex
	items map[domain.ItemID]*domain.Item
}

func NewItemRepository() *ItemRepository {
	return &ItemRepository{items: make(map[domain.ItemID]*domain.Item)}
}

func (r *ItemRepository) Create(_ context.Context, it *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *it
	r.items[it.ID] = &cp
	return nil
}

func (r *ItemRepository) CreateIfAbsent(_ context.Context, it *domain.Item) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if it.ExternalID != "" {
		for _, existing := range r.items {
			if existing.ExternalID == it.ExternalID {
				return false, nil
			}
		}
	}
	cp := *it
	r.items[it.ID] = &cp
	return true, nil
}

func (r *ItemRepository) Update(_ context.Context, id domain.ItemID, p domain.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Summary != nil {
		it.Summary = *p.Summary
	}
	if p.Tags != nil {
		it.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.PillarID != nil {
		it.PillarID = *p.PillarID
	}
	if p.PillarName != nil {
		it.PillarName = *p.PillarName
	}
	if p.TopicID != nil {
		it.TopicID = *p.TopicID
	}
	if p.TopicName != nil {
		it.TopicName = *p.TopicName
	}
	if p.Confidence != nil {
		it.Confidence = *p.Confidence
	}
	if p.Rationale != nil {
		it.Rationale = *p.Rationale
	}
	if p.Status != nil {
		it.Status = *p.Status
	}
	if p.ExtractedText != nil {
		it.ExtractedText = *p.ExtractedText
	}
	if p.Storage != nil {
		ref := *p.Storage
		it.Storage = &ref
	}
	it.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ItemRepository) Get(_ context.Context, id domain.ItemID) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *ItemRepository) GetByExternalID(_ context.Context, externalID string) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.items {
		if it.ExternalID == externalID {
			cp := *it
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *ItemRepository) List(_ context.Context, f domain.Filter) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Item
	for _, it := range r.items {
		if f.PillarID != "" && it.PillarID != f.PillarID {
			continue
		}
		if f.Status != "" && it.Status != f.Status {
			continue
		}
		if f.Search != "" && !matches(it, f.Search) {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func matches(it *domain.Item, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(it.Summary), term) {
		return true
	}
	if strings.Contains(strings.ToLower(it.OriginalName), term) {
		return true
	}
	for _, t := range it.Tags {
		if strings.Contains(strings.ToLower(t), term) {
			return true
		}
	}
	return false
}
