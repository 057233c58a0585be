package videos

import "context"

// Meta metadata satu video (pre-fetched; fetching is the source's job)
type Meta struct {
	ID          string
	Title       string
	Description string
	Channel     string
}

// MetadataSource port untuk sumber metadata video eksternal
type MetadataSource interface {
	GetVideo(ctx context.Context, id string) (Meta, error)
	// ListPlaylistItems returns one page of members plus the continuation
	// token; empty token means the listing is exhausted.
	ListPlaylistItems(ctx context.Context, playlistID, pageToken string) ([]Meta, string, error)
}
