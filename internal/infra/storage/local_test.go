package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/mindvault/curator/internal/domain/items"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir)
	require.NoError(t, err)

	ref, err := store.Store(context.Background(), domain.BlobPut{
		ItemID:      "item-1",
		DisplayName: "notes.md",
		MediaType:   "text/markdown",
		Data:        []byte("hello"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BackendLocal, ref.Backend)
	assert.Equal(t, filepath.Join(dir, "item-1.md"), ref.BlobID)
	assert.Empty(t, ref.URL)

	data, err := store.Fetch(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	require.NoError(t, store.Delete(context.Background(), ref))
	_, err = store.Fetch(context.Background(), ref)
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)
}

func TestLocalStoreMissingFile(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = store.Fetch(context.Background(), domain.StorageRef{
		Backend: domain.BackendLocal,
		BlobID:  filepath.Join(os.TempDir(), "does-not-exist.bin"),
	})
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)
}

func TestGatewayRouting(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	t.Run("local-only gateway stores locally", func(t *testing.T) {
		g := NewGateway(nil, local)
		assert.False(t, g.RemoteEnabled())

		ref, err := g.Store(context.Background(), domain.BlobPut{ItemID: "a", DisplayName: "a.txt", Data: []byte("x")})
		require.NoError(t, err)
		assert.Equal(t, domain.BackendLocal, ref.Backend)
	})

	t.Run("remote ref without remote backend is unavailable", func(t *testing.T) {
		g := NewGateway(nil, local)
		_, err := g.Fetch(context.Background(), domain.StorageRef{Backend: domain.BackendRemote, BlobID: "x"})
		assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	})
}
