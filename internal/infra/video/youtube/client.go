package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mindvault/curator/internal/domain/videos"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// Client implementasi videos.MetadataSource di atas YouTube Data API v3.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithBaseURL is used by tests to point at a stub server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

type snippet struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channelTitle"`
	ResourceID   struct {
		VideoID string `json:"videoId"`
	} `json:"resourceId"`
}

type listResponse struct {
	Items []struct {
		ID      string  `json:"id"`
		Snippet snippet `json:"snippet"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

func (c *Client) GetVideo(ctx context.Context, id string) (videos.Meta, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("id", id)

	var resp listResponse
	if err := c.get(ctx, "/videos", q, &resp); err != nil {
		return videos.Meta{}, err
	}
	if len(resp.Items) == 0 {
		return videos.Meta{}, fmt.Errorf("video %q: %w", id, videos.ErrVideoNotFound)
	}

	it := resp.Items[0]
	return videos.Meta{
		ID:          it.ID,
		Title:       it.Snippet.Title,
		Description: it.Snippet.Description,
		Channel:     it.Snippet.ChannelTitle,
	}, nil
}

func (c *Client) ListPlaylistItems(ctx context.Context, playlistID, pageToken string) ([]videos.Meta, string, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("playlistId", playlistID)
	q.Set("maxResults", "50")
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}

	var resp listResponse
	if err := c.get(ctx, "/playlistItems", q, &resp); err != nil {
		return nil, "", err
	}

	out := make([]videos.Meta, 0, len(resp.Items))
	for _, it := range resp.Items {
		out = append(out, videos.Meta{
			ID:          it.Snippet.ResourceID.VideoID,
			Title:       it.Snippet.Title,
			Description: it.Snippet.Description,
			Channel:     it.Snippet.ChannelTitle,
		})
	}
	return out, resp.NextPageToken, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	q.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("youtube request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return videos.ErrVideoNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube api returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
