package extract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/mindvault/curator/internal/domain/videos"
)

const (
	// maxPDFPages limits the number of pages to process
	maxPDFPages = 100

	// DefaultMaxChars caps extracted text to bound downstream prompt size.
	DefaultMaxChars = 8000
)

// Extractor converts raw inputs into bounded plain text. Extraction degrades
// to a placeholder instead of failing so classification can still run on the
// filename alone.
type Extractor struct {
	maxChars int
}

func New(maxChars int) *Extractor {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Extractor{maxChars: maxChars}
}

// ExtractFile produces text from uploaded bytes based on the declared media
// type. Unknown media types (images etc.) yield an empty extraction.
func (e *Extractor) ExtractFile(name, mediaType string, data []byte) string {
	switch {
	case isTextual(mediaType, name):
		return e.truncate(string(data))
	case mediaType == "application/pdf" || strings.HasSuffix(strings.ToLower(name), ".pdf"):
		text, err := extractPDF(data)
		if err != nil {
			// degrade, jangan gagalkan pipeline
			return fmt.Sprintf("[unreadable document: %s]", name)
		}
		return e.truncate(text)
	default:
		return ""
	}
}

// ExtractVideo concatenates title, channel and description into one blob.
func (e *Extractor) ExtractVideo(m videos.Meta) string {
	var b strings.Builder
	b.WriteString("Title: " + m.Title + "\n")
	if m.Channel != "" {
		b.WriteString("Channel: " + m.Channel + "\n")
	}
	if m.Description != "" {
		b.WriteString("Description: " + m.Description + "\n")
	}
	return e.truncate(b.String())
}

// truncate caps the text at maxChars bytes without splitting a rune, so the
// result stays valid UTF-8 for the prompt and the database.
func (e *Extractor) truncate(s string) string {
	if len(s) <= e.maxChars {
		return s
	}
	cut := e.maxChars
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isTextual(mediaType, name string) bool {
	if strings.HasPrefix(mediaType, "text/") {
		return true
	}
	switch mediaType {
	case "application/json", "application/xml", "application/x-yaml", "application/yaml":
		return true
	}
	lower := strings.ToLower(name)
	for _, ext := range []string{".txt", ".md", ".markdown", ".csv", ".json", ".yaml", ".yml", ".xml"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	totalPages := pdfReader.NumPage()
	if totalPages == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}
	if totalPages > maxPDFPages {
		totalPages = maxPDFPages
	}

	var textBuilder strings.Builder
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages with extraction errors, don't fail completely
			continue
		}
		text = strings.TrimSpace(strings.ReplaceAll(text, "\x00", ""))
		if text != "" {
			textBuilder.WriteString(text)
			textBuilder.WriteString("\n")
		}
	}
	return textBuilder.String(), nil
}
