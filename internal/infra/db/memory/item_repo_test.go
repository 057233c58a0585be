package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/mindvault/curator/internal/domain/items"
)

func seed(t *testing.T, r *ItemRepository, id, name string) *domain.Item {
	t.Helper()
	it := &domain.Item{
		ID:           domain.ItemID(id),
		SourceKind:   domain.SourceFile,
		OriginalName: name,
		Summary:      "original summary",
		Tags:         []string{"one", "two"},
		PillarID:     "P1",
		Confidence:   0.5,
		Status:       domain.StatusClassified,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, r.Create(context.Background(), it))
	return it
}

func TestUpdateMergesNotOverwrites(t *testing.T) {
	r := NewItemRepository()
	before := seed(t, r, "it-1", "a.txt")

	s := "new summary"
	require.NoError(t, r.Update(context.Background(), "it-1", domain.Patch{Summary: &s}))

	after, err := r.Get(context.Background(), "it-1")
	require.NoError(t, err)

	assert.Equal(t, "new summary", after.Summary)
	// everything else retains its prior value
	assert.Equal(t, before.Tags, after.Tags)
	assert.Equal(t, before.PillarID, after.PillarID)
	assert.Equal(t, before.Confidence, after.Confidence)
	assert.Equal(t, before.Status, after.Status)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt) || after.UpdatedAt.Equal(before.UpdatedAt))
}

func TestUpdateUnknownID(t *testing.T) {
	r := NewItemRepository()
	s := "x"
	err := r.Update(context.Background(), "missing", domain.Patch{Summary: &s})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateIfAbsent(t *testing.T) {
	r := NewItemRepository()

	a := &domain.Item{ID: "a", ExternalID: "ext-1", OriginalName: "first", CreatedAt: time.Now()}
	inserted, err := r.CreateIfAbsent(context.Background(), a)
	require.NoError(t, err)
	assert.True(t, inserted)

	b := &domain.Item{ID: "b", ExternalID: "ext-1", OriginalName: "second", CreatedAt: time.Now()}
	inserted, err = r.CreateIfAbsent(context.Background(), b)
	require.NoError(t, err)
	assert.False(t, inserted)

	got, err := r.GetByExternalID(context.Background(), "ext-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ItemID("a"), got.ID)
}

func TestListFilters(t *testing.T) {
	r := NewItemRepository()
	seed(t, r, "it-1", "budget-notes.txt")
	it2 := seed(t, r, "it-2", "workout.txt")
	st := domain.StatusError
	require.NoError(t, r.Update(context.Background(), it2.ID, domain.Patch{Status: &st}))

	t.Run("by status", func(t *testing.T) {
		list, err := r.List(context.Background(), domain.Filter{Status: domain.StatusError})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, domain.ItemID("it-2"), list[0].ID)
	})

	t.Run("case-insensitive name search", func(t *testing.T) {
		list, err := r.List(context.Background(), domain.Filter{Search: "BUDGET"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, domain.ItemID("it-1"), list[0].ID)
	})
}
