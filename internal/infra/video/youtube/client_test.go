package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindvault/curator/internal/domain/videos"
)

func stubServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithBaseURL("test-key", srv.URL)
}

func TestGetVideo(t *testing.T) {
	c := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "abc", r.URL.Query().Get("id"))

		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{{
				"id": "abc",
				"snippet": map[string]any{
					"title":        "How to budget",
					"description":  "Budgeting basics.",
					"channelTitle": "Money Matters",
				},
			}},
		})
	})

	meta, err := c.GetVideo(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, videos.Meta{
		ID:          "abc",
		Title:       "How to budget",
		Description: "Budgeting basics.",
		Channel:     "Money Matters",
	}, meta)
}

func TestGetVideoNotFound(t *testing.T) {
	c := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
	})

	_, err := c.GetVideo(context.Background(), "missing")
	assert.ErrorIs(t, err, videos.ErrVideoNotFound)
}

func TestListPlaylistItems(t *testing.T) {
	c := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/playlistItems", r.URL.Path)
		assert.Equal(t, "pl-1", r.URL.Query().Get("playlistId"))

		resp := map[string]any{
			"items": []map[string]any{
				{"snippet": map[string]any{
					"title":        "Part 1",
					"channelTitle": "Chan",
					"resourceId":   map[string]any{"videoId": "v1"},
				}},
				{"snippet": map[string]any{
					"title":        "Part 2",
					"channelTitle": "Chan",
					"resourceId":   map[string]any{"videoId": "v2"},
				}},
			},
		}
		if r.URL.Query().Get("pageToken") == "" {
			resp["nextPageToken"] = "tok-2"
		}
		json.NewEncoder(w).Encode(resp)
	})

	page, next, err := c.ListPlaylistItems(context.Background(), "pl-1", "")
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "v1", page[0].ID)
	assert.Equal(t, "Part 1", page[0].Title)
	assert.Equal(t, "tok-2", next)

	page, next, err = c.ListPlaylistItems(context.Background(), "pl-1", next)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Empty(t, next)
}

func TestServerError(t *testing.T) {
	c := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.GetVideo(context.Background(), "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
