package batch

import (
	"context"
	"log"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/mindvault/curator/internal/application/ingest"
	domain "github.com/mindvault/curator/internal/domain/items"
	"github.com/mindvault/curator/internal/domain/videos"
)

// Service drives classification over a playlist. ProcessPlaylist returns the
// accepted member count immediately; the per-member pipeline then runs as one
// detached task on the worker pool, members processed sequentially and
// isolated from each other's failures. Progress is observable only through
// the item ledger.
type Service struct {
	Videos videos.MetadataSource
	Ingest *ingest.Service

	pool *ants.Pool
	wg   sync.WaitGroup
}

func NewService(src videos.MetadataSource, ing *ingest.Service, poolSize int) (*Service, error) {
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	return &Service{Videos: src, Ingest: ing, pool: pool}, nil
}

// ProcessPlaylist fetches all members (following the page token until
// exhausted) and queues them for background classification.
func (s *Service) ProcessPlaylist(ctx context.Context, playlistID string) (int, error) {
	var members []videos.Meta
	pageToken := ""
	for {
		page, next, err := s.Videos.ListPlaylistItems(ctx, playlistID, pageToken)
		if err != nil {
			return 0, err
		}
		members = append(members, page...)
		if next == "" {
			break
		}
		pageToken = next
	}

	s.wg.Add(1)
	// background context: harus jalan sampai selesai, bukan seumur request
	err := s.pool.Submit(func() {
		defer s.wg.Done()
		s.processMembers(context.Background(), playlistID, members)
	})
	if err != nil {
		s.wg.Done()
		return 0, err
	}

	return len(members), nil
}

func (s *Service) processMembers(ctx context.Context, playlistID string, members []videos.Meta) {
	for _, m := range members {
		// full metadata per member; the playlist listing only carries a
		// truncated snippet
		meta, err := s.Videos.GetVideo(ctx, m.ID)
		if err != nil {
			// no row to register; skip and keep going
			log.Printf("playlist %s: metadata fetch failed for %s: %v", playlistID, m.ID, err)
			continue
		}
		if _, err := s.Ingest.IngestMember(ctx, meta, domain.SourcePlaylistMember); err != nil {
			// item row (if any) already carries error status + rationale
			log.Printf("playlist %s: member %s failed: %v", playlistID, m.ID, err)
		}
	}
	log.Printf("playlist %s: processed %d members", playlistID, len(members))
}

// Wait blocks until all queued batches finish. Used by tests and shutdown.
func (s *Service) Wait() { s.wg.Wait() }

// Release stops the worker pool.
func (s *Service) Release() { s.pool.Release() }
