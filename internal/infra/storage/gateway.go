package storage

import (
	"context"
	"fmt"

	"github.com/mindvault/curator/internal/domain/items"
)

// Gateway selects the active backend once at startup. Store always uses the
// active backend; a failing remote store is not retried locally. Fetch and
// Delete route by the ref's backend so items stored before a backend switch
// stay readable.
type Gateway struct {
	remote items.BlobStore // nil when remote storage is not configured
	local  items.BlobStore
}

func NewGateway(remote, local items.BlobStore) *Gateway {
	return &Gateway{remote: remote, local: local}
}

// RemoteEnabled reports which backend Store will use.
func (g *Gateway) RemoteEnabled() bool { return g.remote != nil }

func (g *Gateway) Store(ctx context.Context, put items.BlobPut) (items.StorageRef, error) {
	if g.remote != nil {
		return g.remote.Store(ctx, put)
	}
	return g.local.Store(ctx, put)
}

func (g *Gateway) Fetch(ctx context.Context, ref items.StorageRef) ([]byte, error) {
	if ref.Backend == items.BackendRemote {
		if g.remote == nil {
			return nil, fmt.Errorf("%w: remote backend disabled", items.ErrStorageUnavailable)
		}
		return g.remote.Fetch(ctx, ref)
	}
	return g.local.Fetch(ctx, ref)
}

func (g *Gateway) Delete(ctx context.Context, ref items.StorageRef) error {
	if ref.Backend == items.BackendRemote {
		if g.remote == nil {
			return fmt.Errorf("%w: remote backend disabled", items.ErrStorageUnavailable)
		}
		return g.remote.Delete(ctx, ref)
	}
	return g.local.Delete(ctx, ref)
}
