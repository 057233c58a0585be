package items

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Create(ctx context.Context, it *Item) error
	// CreateIfAbsent inserts unless an item with the same ExternalID already
	// exists; returns false when the insert was skipped.
	CreateIfAbsent(ctx context.Context, it *Item) (bool, error)
	// Update applies a COALESCE-style merge: only non-nil patch fields change.
	Update(ctx context.Context, id ItemID, p Patch) error
	Get(ctx context.Context, id ItemID) (*Item, error)
	GetByExternalID(ctx context.Context, externalID string) (*Item, error)
	List(ctx context.Context, f Filter) ([]*Item, error)
}

// BlobPut request untuk BlobStore.Store
type BlobPut struct {
	ItemID      ItemID
	DisplayName string
	MediaType   string
	Data        []byte
}

// BlobStore port (interface untuk penyimpanan bytes asli)
type BlobStore interface {
	Store(ctx context.Context, put BlobPut) (StorageRef, error)
	Fetch(ctx context.Context, ref StorageRef) ([]byte, error)
	Delete(ctx context.Context, ref StorageRef) error
}
