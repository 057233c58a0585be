package extract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/mindvault/curator/internal/domain/videos"
)

func TestExtractFileText(t *testing.T) {
	e := New(0)

	t.Run("markdown decoded as-is", func(t *testing.T) {
		got := e.ExtractFile("notes.md", "text/markdown", []byte("Deep work and focus habits"))
		assert.Equal(t, "Deep work and focus habits", got)
	})

	t.Run("extension wins when media type is generic", func(t *testing.T) {
		got := e.ExtractFile("data.json", "application/octet-stream", []byte(`{"a":1}`))
		assert.Equal(t, `{"a":1}`, got)
	})

	t.Run("unknown media type yields empty extraction", func(t *testing.T) {
		got := e.ExtractFile("photo.png", "image/png", []byte{0x89, 0x50, 0x4e, 0x47})
		assert.Empty(t, got)
	})

	t.Run("output capped at max chars", func(t *testing.T) {
		e := New(10)
		got := e.ExtractFile("big.txt", "text/plain", []byte(strings.Repeat("x", 100)))
		assert.Len(t, got, 10)
	})

	t.Run("cap never splits a multi-byte rune", func(t *testing.T) {
		e := New(9)
		got := e.ExtractFile("accents.txt", "text/plain", []byte(strings.Repeat("é", 20)))
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, strings.Repeat("é", 4), got)
		assert.LessOrEqual(t, len(got), 9)
	})

	t.Run("malformed pdf degrades to placeholder", func(t *testing.T) {
		got := e.ExtractFile("broken.pdf", "application/pdf", []byte("not a pdf at all"))
		assert.Contains(t, got, "unreadable document")
		assert.Contains(t, got, "broken.pdf")
	})
}

func TestExtractVideo(t *testing.T) {
	e := New(0)

	got := e.ExtractVideo(videos.Meta{
		ID:          "abc123",
		Title:       "How to budget",
		Channel:     "Money Matters",
		Description: "A primer on monthly budgeting.",
	})
	assert.Contains(t, got, "How to budget")
	assert.Contains(t, got, "Money Matters")
	assert.Contains(t, got, "monthly budgeting")

	t.Run("missing fields are skipped", func(t *testing.T) {
		got := e.ExtractVideo(videos.Meta{Title: "Just a title"})
		assert.Equal(t, "Title: Just a title\n", got)
	})

	t.Run("capped", func(t *testing.T) {
		e := New(12)
		got := e.ExtractVideo(videos.Meta{Title: strings.Repeat("t", 50)})
		assert.Len(t, got, 12)
	})
}
